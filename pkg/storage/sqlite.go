package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cosmicwatch/neo-sentinel/pkg/alerts"

	_ "modernc.org/sqlite"
)

// SQLite implements the Store interface using an SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) SaveAlert(ctx context.Context, event *alerts.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.TriggeredAt.IsZero() {
		event.TriggeredAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alert_events (id, type, reason, object_id, object_name, message, miss_distance_km, diameter_max_m, velocity_kph, risk_score, triggered_at, read)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.Type), event.Reason, event.ObjectID, event.ObjectName,
		event.Message, event.MissDistanceKm, event.DiameterMaxM, event.VelocityKph,
		event.RiskScore, event.TriggeredAt, event.Read,
	)
	if err != nil {
		return fmt.Errorf("insert alert event: %w", err)
	}
	return nil
}

func (s *SQLite) ListAlerts(ctx context.Context, limit int) ([]alerts.Event, error) {
	query := `SELECT id, type, reason, object_id, object_name, message, miss_distance_km, diameter_max_m, velocity_kph, risk_score, triggered_at, read
	          FROM alert_events ORDER BY triggered_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var events []alerts.Event
	for rows.Next() {
		var e alerts.Event
		var eventType string
		if err := rows.Scan(&e.ID, &eventType, &e.Reason, &e.ObjectID, &e.ObjectName,
			&e.Message, &e.MissDistanceKm, &e.DiameterMaxM, &e.VelocityKph,
			&e.RiskScore, &e.TriggeredAt, &e.Read); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		e.Type = alerts.EventType(eventType)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *SQLite) MarkAlertRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE alert_events SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("alert %q not found", id)
	}
	return nil
}

func (s *SQLite) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM alert_events WHERE read = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread alerts: %w", err)
	}
	return count, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
