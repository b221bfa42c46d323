package storage

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	// Migration 1: Initial schema
	`CREATE TABLE IF NOT EXISTS alert_events (
		id               TEXT PRIMARY KEY,
		type             TEXT NOT NULL CHECK(type IN ('CRITICAL', 'WARNING', 'INFO')),
		reason           TEXT NOT NULL,
		object_id        TEXT NOT NULL,
		object_name      TEXT NOT NULL DEFAULT '',
		message          TEXT NOT NULL,
		miss_distance_km REAL NOT NULL DEFAULT 0.0,
		diameter_max_m   REAL NOT NULL DEFAULT 0.0,
		velocity_kph     REAL NOT NULL DEFAULT 0.0,
		risk_score       INTEGER NOT NULL DEFAULT 0,
		triggered_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		read             INTEGER NOT NULL DEFAULT 0,
		created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_alert_object ON alert_events(object_id);
	CREATE INDEX IF NOT EXISTS idx_alert_triggered ON alert_events(triggered_at);
	CREATE INDEX IF NOT EXISTS idx_alert_read ON alert_events(read);

	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
}

// runMigrations applies pending schema migrations.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("check migration version: %w", err)
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("run migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}

	return nil
}
