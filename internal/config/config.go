// Package config loads server configuration from defaults, an optional
// YAML file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/evcraddock/realty/internal/db"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. Only suitable for development.
const DefaultJWTSecret = "dev-secret-change-me"

// Config holds server configuration.
type Config struct {
	Port     int    `yaml:"port" envconfig:"PORT"`
	Env      string `yaml:"env" envconfig:"APP_ENV"`
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	DBDriver          string        `yaml:"db_driver" envconfig:"DB_DRIVER"`
	DatabaseURL       string        `yaml:"database_url" envconfig:"DATABASE_URL"`
	DBMaxOpenConns    int           `yaml:"db_max_open_conns" envconfig:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int           `yaml:"db_max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime time.Duration `yaml:"db_conn_max_lifetime" envconfig:"DB_CONN_MAX_LIFETIME"`

	JWTSecret  string        `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
	JWTExpiry  time.Duration `yaml:"jwt_expiry" envconfig:"JWT_EXPIRY"`
	BcryptCost int           `yaml:"bcrypt_cost" envconfig:"BCRYPT_COST"`

	AdminName     string `yaml:"admin_name" envconfig:"ADMIN_NAME"`
	AdminEmail    string `yaml:"admin_email" envconfig:"ADMIN_EMAIL"`
	AdminPassword string `yaml:"admin_password" envconfig:"ADMIN_PASSWORD"`

	// WebAuthnOrigin enables passkey routes when set, e.g. http://localhost:5000.
	WebAuthnOrigin string `yaml:"webauthn_origin" envconfig:"WEBAUTHN_ORIGIN"`
}

// Default returns the documented defaults.
func Default() Config {
	dbPath, err := db.DefaultPath()
	if err != nil {
		dbPath = "realty.db"
	}
	return Config{
		Port:              5000,
		Env:               "development",
		LogLevel:          "info",
		DBDriver:          db.DriverSQLite,
		DatabaseURL:       dbPath,
		DBMaxOpenConns:    10,
		DBMaxIdleConns:    5,
		DBConnMaxLifetime: time.Hour,
		JWTSecret:         DefaultJWTSecret,
		JWTExpiry:         24 * time.Hour,
		BcryptCost:        10,
		AdminName:         "Admin",
	}
}

// Load builds a Config. path names an optional YAML file; when empty,
// REALTY_CONFIG is consulted. A .env file in the working directory is
// loaded if present, without overriding variables already set.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("REALTY_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.DBDriver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, db.DriverSQLite, db.DriverPostgres)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}
	if c.AdminEmail != "" && c.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}
	return nil
}

// Development reports whether the server runs in development mode.
func (c Config) Development() bool {
	return c.Env != "production"
}

// DefaultSecret reports whether the built-in development secret is in use.
func (c Config) DefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// DBOptions returns the connection settings for db.Open.
func (c Config) DBOptions() db.Options {
	return db.Options{
		Driver:          c.DBDriver,
		DSN:             c.DatabaseURL,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
