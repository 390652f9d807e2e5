package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates new database",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "realty.db")
			},
		},
		{
			name: "creates nested directories",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "a", "b", "realty.db")
			},
		},
		{
			name: "opens existing database",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "realty.db")
				d, err := OpenSQLite(path)
				if err != nil {
					t.Fatalf("setup: %v", err)
				}
				if err := d.Close(); err != nil {
					t.Fatalf("setup close: %v", err)
				}
				return path
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			d, err := OpenSQLite(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() {
				if err := d.Close(); err != nil {
					t.Errorf("close: %v", err)
				}
			}()

			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Error("database file was not created")
			}
		})
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(Options{Driver: "mysql", DSN: "whatever"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestWALMode(t *testing.T) {
	d := openTestDB(t)

	var mode string
	if err := d.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestForeignKeys(t *testing.T) {
	d := openTestDB(t)

	var fk int
	if err := d.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestMigrations(t *testing.T) {
	tests := []struct {
		name  string
		table string
		cols  []string
	}{
		{
			name:  "users table exists",
			table: "users",
			cols:  []string{"id", "name", "email", "password", "role", "created_at"},
		},
		{
			name:  "properties table exists",
			table: "properties",
			cols: []string{"id", "owner_id", "title", "description", "price", "address", "city", "state",
				"zip_code", "latitude", "longitude", "type", "beds", "baths", "sqft", "images", "created_at"},
		},
		{
			name:  "favorites table exists",
			table: "favorites",
			cols:  []string{"id", "user_id", "property_id", "created_at"},
		},
		{
			name:  "reviews table exists",
			table: "reviews",
			cols:  []string{"id", "property_id", "user_id", "review", "rating", "created_at"},
		},
		{
			name:  "passkey_credentials table exists",
			table: "passkey_credentials",
			cols:  []string{"id", "user_id", "name", "credential", "created_at"},
		},
	}

	d := openTestDB(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := tableColumns(t, d, tt.table)
			if len(cols) != len(tt.cols) {
				t.Fatalf("got %d columns, want %d: %v", len(cols), len(tt.cols), cols)
			}
			for i, want := range tt.cols {
				if cols[i] != want {
					t.Errorf("column %d = %q, want %q", i, cols[i], want)
				}
			}
		})
	}
}

func TestUniqueEmailClassified(t *testing.T) {
	d := openTestDB(t)

	insert := `INSERT INTO users (name, email, password) VALUES (?, ?, ?)`
	if _, err := d.Exec(insert, "A", "a@example.com", "hash"); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	_, err := d.Exec(insert, "B", "a@example.com", "hash")
	err = Classify(err)

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %T: %v", err, err)
	}
	if se.Kind != KindUnique {
		t.Errorf("kind = %v, want %v", se.Kind, KindUnique)
	}
	if se.Constraint != "users.email" {
		t.Errorf("constraint = %q, want %q", se.Constraint, "users.email")
	}
}

func TestCheckConstraintClassified(t *testing.T) {
	d := openTestDB(t)
	ownerID := insertUser(t, d, "owner@example.com")

	insert := `INSERT INTO properties
		(owner_id, title, description, price, address, city, state, zip_code, latitude, longitude, type, beds, baths, sqft, images)
		VALUES (?, 't', 'd', ?, 'a', 'c', 's', 'z', ?, 0, 'house', ?, 1, 100, '[]')`

	tests := []struct {
		name      string
		price     float64
		latitude  float64
		beds      int
		wantField string
	}{
		{"negative price", -1, 0, 1, "price"},
		{"latitude out of range", 1, 91, 1, "latitude"},
		{"negative beds", 1, 0, -2, "beds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Exec(insert, ownerID, tt.price, tt.latitude, tt.beds)
			err = Classify(err)

			var se *StorageError
			if !errors.As(err, &se) {
				t.Fatalf("expected StorageError, got %v", err)
			}
			if se.Kind != KindCheck {
				t.Fatalf("kind = %v, want %v", se.Kind, KindCheck)
			}
			if got := ConstraintField(se.Constraint, "properties"); got != tt.wantField {
				t.Errorf("field = %q, want %q (constraint %q)", got, tt.wantField, se.Constraint)
			}
		})
	}
}

func TestRatingConstraint(t *testing.T) {
	d := openTestDB(t)
	userID := insertUser(t, d, "reviewer@example.com")
	propID := insertProperty(t, d, userID)

	tests := []struct {
		name    string
		rating  int
		wantErr bool
	}{
		{"rating 1 is valid", 1, false},
		{"rating 5 is valid", 5, false},
		{"rating 0 is invalid", 0, true},
		{"rating 6 is invalid", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Exec(`INSERT INTO reviews (property_id, user_id, review, rating) VALUES (?, ?, ?, ?)`,
				propID, userID, "text", tt.rating)
			if tt.wantErr && !IsKind(Classify(err), KindCheck) {
				t.Errorf("expected check violation, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestForeignKeyClassified(t *testing.T) {
	d := openTestDB(t)
	userID := insertUser(t, d, "fan@example.com")

	_, err := d.Exec(`INSERT INTO favorites (user_id, property_id) VALUES (?, ?)`, userID, 9999)
	if !IsKind(Classify(err), KindForeignKey) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
}

func TestCascadeDelete(t *testing.T) {
	d := openTestDB(t)
	userID := insertUser(t, d, "cascade@example.com")
	propID := insertProperty(t, d, userID)

	if _, err := d.Exec(`INSERT INTO favorites (user_id, property_id) VALUES (?, ?)`, userID, propID); err != nil {
		t.Fatalf("insert favorite: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := d.Exec(`INSERT INTO reviews (property_id, user_id, review, rating) VALUES (?, ?, ?, ?)`,
			propID, userID, fmt.Sprintf("review %d", i), 4); err != nil {
			t.Fatalf("insert review %d: %v", i, err)
		}
	}

	if _, err := d.Exec(`DELETE FROM properties WHERE id = ?`, propID); err != nil {
		t.Fatalf("delete property: %v", err)
	}

	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM reviews WHERE property_id = ?`, propID).Scan(&count); err != nil {
		t.Fatalf("count reviews: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 reviews after cascade delete, got %d", count)
	}
	if err := d.QueryRow(`SELECT COUNT(*) FROM favorites WHERE property_id = ?`, propID).Scan(&count); err != nil {
		t.Fatalf("count favorites: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 favorites after cascade delete, got %d", count)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realty.db")

	d1, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := d1.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	d2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("second open (idempotency): %v", err)
	}
	if err := d2.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestWithTx(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := WithTx(ctx, d, func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`INSERT INTO users (name, email, password) VALUES ('R', 'rollback@example.com', 'x')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	err = WithTx(ctx, d, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO users (name, email, password) VALUES ('C', 'commit@example.com', 'x')`)
		return err
	})
	if err != nil {
		t.Fatalf("commit tx: %v", err)
	}

	var count int
	if err := d.Get(&count, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("users = %d, want 1 (rolled back insert must not persist)", count)
	}
}

func TestConstraintField(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"properties_price_check", "price"},
		{"properties_zip_code_check", "zip_code"},
		{"something_else", "something_else"},
	}
	for _, tt := range tests {
		if got := ConstraintField(tt.constraint, "properties"); got != tt.want {
			t.Errorf("ConstraintField(%q) = %q, want %q", tt.constraint, got, tt.want)
		}
	}
}

func TestForUpdate(t *testing.T) {
	d := openTestDB(t)
	if got := ForUpdate(d); got != "" {
		t.Errorf("ForUpdate(sqlite) = %q, want empty", got)
	}
}

func TestDefaultPath(t *testing.T) {
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(p) != "realty.db" {
		t.Errorf("expected filename realty.db, got %s", filepath.Base(p))
	}

	dir := filepath.Base(filepath.Dir(p))
	if dir != ".realty" {
		t.Errorf("expected directory .realty, got %s", dir)
	}
}

// openTestDB creates a temporary database for testing.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "realty.db")
	d, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return d
}

func insertUser(t *testing.T, d *sqlx.DB, email string) int64 {
	t.Helper()
	res, err := d.Exec(`INSERT INTO users (name, email, password) VALUES (?, ?, ?)`, "Test", email, "hash")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}

func insertProperty(t *testing.T, d *sqlx.DB, ownerID int64) int64 {
	t.Helper()
	res, err := d.Exec(`INSERT INTO properties
		(owner_id, title, description, price, address, city, state, zip_code, latitude, longitude, type, beds, baths, sqft, images)
		VALUES (?, 't', 'd', 100, 'a', 'c', 's', 'z', 0, 0, 'house', 1, 1, 100, '[]')`, ownerID)
	if err != nil {
		t.Fatalf("insert property: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}

// tableColumns returns column names for a table using PRAGMA table_info.
func tableColumns(t *testing.T, d *sqlx.DB, table string) []string {
	t.Helper()
	rows, err := d.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		t.Fatalf("pragma table_info(%s): %v", table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			t.Errorf("close rows: %v", err)
		}
	}()

	var cols []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notnull int
		var dflt *string
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}
