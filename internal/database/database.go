package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection
func New(dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// createSchema creates the session table and its indexes
func (db *DB) createSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS voice_sessions (
			id BIGSERIAL PRIMARY KEY,
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			joined_ts BIGINT NOT NULL,
			left_ts BIGINT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_voice_sessions_open
			ON voice_sessions (guild_id, user_id) WHERE left_ts IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_voice_sessions_joined
			ON voice_sessions (guild_id, joined_ts)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}
