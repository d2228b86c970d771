// Package postgres persists users and plants in PostgreSQL via database/sql.
//
// The package maps storage-level conditions onto the error contracts its
// consumers expect: absent rows become (nil, nil) results for the engine's
// UserStore, catalog.ErrNotFound for the plant store, and unique-constraint
// violations become florafolio.ErrUsernameTaken.
package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	email         TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plants (
	id                UUID PRIMARY KEY,
	popular_name      TEXT NOT NULL,
	scientific_name   TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	family            TEXT NOT NULL DEFAULT '',
	origin            TEXT NOT NULL DEFAULT '',
	care_instructions TEXT NOT NULL DEFAULT '',
	image_url         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_plants_popular_name ON plants (LOWER(popular_name));
CREATE INDEX IF NOT EXISTS idx_plants_scientific_name ON plants (LOWER(scientific_name));
`

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
