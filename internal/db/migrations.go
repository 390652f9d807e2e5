package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// sqliteMigrations is the ordered schema for SQLite. Images and passkey
// credentials are JSON documents stored as TEXT.
var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT    NOT NULL,
		email      TEXT    NOT NULL UNIQUE,
		password   TEXT    NOT NULL,
		role       TEXT    NOT NULL DEFAULT 'user' CONSTRAINT users_role_check CHECK (role IN ('user', 'admin')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id    INTEGER NOT NULL REFERENCES users(id),
		title       TEXT    NOT NULL,
		description TEXT    NOT NULL,
		price       REAL    NOT NULL CONSTRAINT properties_price_check CHECK (price >= 0),
		address     TEXT    NOT NULL,
		city        TEXT    NOT NULL,
		state       TEXT    NOT NULL,
		zip_code    TEXT    NOT NULL,
		latitude    REAL    NOT NULL CONSTRAINT properties_latitude_check CHECK (latitude BETWEEN -90 AND 90),
		longitude   REAL    NOT NULL CONSTRAINT properties_longitude_check CHECK (longitude BETWEEN -180 AND 180),
		type        TEXT    NOT NULL,
		beds        INTEGER NOT NULL CONSTRAINT properties_beds_check CHECK (beds >= 0),
		baths       REAL    NOT NULL CONSTRAINT properties_baths_check CHECK (baths >= 0),
		sqft        INTEGER NOT NULL CONSTRAINT properties_sqft_check CHECK (sqft >= 0),
		images      TEXT    NOT NULL DEFAULT '[]',
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS properties_owner_id_idx ON properties(owner_id)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT favorites_user_id_property_id_key UNIQUE (user_id, property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		review      TEXT    NOT NULL,
		rating      INTEGER NOT NULL CONSTRAINT reviews_rating_check CHECK (rating BETWEEN 1 AND 5),
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_property_id_idx ON reviews(property_id)`,
	`CREATE TABLE IF NOT EXISTS passkey_credentials (
		id         TEXT    PRIMARY KEY,
		user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT    NOT NULL DEFAULT '',
		credential TEXT    NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// postgresMigrations mirrors sqliteMigrations using native PostgreSQL types.
var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL CONSTRAINT users_email_key UNIQUE,
		password   TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'user' CONSTRAINT users_role_check CHECK (role IN ('user', 'admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id          BIGSERIAL PRIMARY KEY,
		owner_id    BIGINT NOT NULL REFERENCES users(id),
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		price       DOUBLE PRECISION NOT NULL CONSTRAINT properties_price_check CHECK (price >= 0),
		address     TEXT NOT NULL,
		city        TEXT NOT NULL,
		state       TEXT NOT NULL,
		zip_code    TEXT NOT NULL,
		latitude    DOUBLE PRECISION NOT NULL CONSTRAINT properties_latitude_check CHECK (latitude BETWEEN -90 AND 90),
		longitude   DOUBLE PRECISION NOT NULL CONSTRAINT properties_longitude_check CHECK (longitude BETWEEN -180 AND 180),
		type        TEXT NOT NULL,
		beds        INTEGER NOT NULL CONSTRAINT properties_beds_check CHECK (beds >= 0),
		baths       DOUBLE PRECISION NOT NULL CONSTRAINT properties_baths_check CHECK (baths >= 0),
		sqft        INTEGER NOT NULL CONSTRAINT properties_sqft_check CHECK (sqft >= 0),
		images      JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS properties_owner_id_idx ON properties(owner_id)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT favorites_user_id_property_id_key UNIQUE (user_id, property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          BIGSERIAL PRIMARY KEY,
		property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		review      TEXT NOT NULL,
		rating      INTEGER NOT NULL CONSTRAINT reviews_rating_check CHECK (rating BETWEEN 1 AND 5),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_property_id_idx ON reviews(property_id)`,
	`CREATE TABLE IF NOT EXISTS passkey_credentials (
		id         TEXT PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL DEFAULT '',
		credential JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// migrate runs the schema for the connected dialect in order.
// Every statement is idempotent so it is safe on each start.
func migrate(db *sqlx.DB) error {
	migrations := sqliteMigrations
	if IsPostgres(db) {
		migrations = postgresMigrations
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return nil
}
