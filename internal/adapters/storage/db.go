package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables. Nested blocks of a team record (information, tech video,
	// schedule, locations) are stored as JSON documents and replaced wholesale
	// by the engines; announcements live in their own table to preserve
	// insertion order per team. The version column backs optimistic
	// concurrency on every team-record write.
	schema := `
	CREATE TABLE IF NOT EXISTS passcode (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		team_id TEXT,
		label TEXT NOT NULL DEFAULT '',
		passcode_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS team_record (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		information TEXT NOT NULL DEFAULT '{}',
		tech_video TEXT NOT NULL DEFAULT '{}',
		schedule TEXT NOT NULL DEFAULT '{}',
		nearby_locations TEXT NOT NULL DEFAULT '[]',
		version INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS announcement (
		team_id TEXT NOT NULL,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp_ms INTEGER NOT NULL,
		target_teams TEXT NOT NULL DEFAULT '[]',
		position INTEGER NOT NULL,
		PRIMARY KEY (team_id, id),
		FOREIGN KEY (team_id) REFERENCES team_record(id)
	);

	CREATE TABLE IF NOT EXISTS report (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
