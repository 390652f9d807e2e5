// Package db provides database initialization and access for SQLite and PostgreSQL.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Options controls how Open connects and sizes the pool.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPath returns the default SQLite database path: ~/.realty/realty.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".realty", "realty.db"), nil
}

// Open connects to the database described by opts and runs migrations.
func Open(opts Options) (*sqlx.DB, error) {
	dsn := opts.DSN

	switch opts.Driver {
	case DriverSQLite:
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			dir := filepath.Dir(dsn)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	configure(db, opts)

	if err := db.Ping(); err != nil {
		return nil, closeWith(db, fmt.Errorf("connecting to database: %w", err))
	}

	if err := migrate(db); err != nil {
		return nil, closeWith(db, fmt.Errorf("running migrations: %w", err))
	}

	return db, nil
}

// OpenSQLite opens a SQLite database at path with default pool settings.
func OpenSQLite(path string) (*sqlx.DB, error) {
	return Open(Options{Driver: DriverSQLite, DSN: path})
}

// sqliteDSN appends the connection parameters every SQLite connection needs.
// Pragmas set through the DSN apply to each pooled connection, not just the first.
func sqliteDSN(path string) string {
	params := "_foreign_keys=on&_journal_mode=WAL&_txlock=immediate&_busy_timeout=5000"
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + "?" + params
}

// configure applies pool limits.
func configure(db *sqlx.DB, opts Options) {
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
}

func closeWith(db *sqlx.DB, err error) error {
	if closeErr := db.Close(); closeErr != nil {
		return fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
	}
	return err
}

// IsPostgres reports whether q talks to PostgreSQL.
func IsPostgres(q interface{ DriverName() string }) bool {
	return q.DriverName() == DriverPostgres
}
