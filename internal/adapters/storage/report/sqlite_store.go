package report

import (
	"context"
	"fmt"
	"time"

	"mainstage/internal/adapters/storage"
	domain "mainstage/internal/domain/report"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create persists a new incident report.
// PRE: r has been validated and carries an ID
// POST: Report is persisted with an RFC3339 timestamp
func (s *SQLiteStore) Create(ctx context.Context, r domain.Report) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO report (id, team_id, description, created_at) VALUES (?, ?, ?, ?)`,
		r.ID, r.TeamID, r.Description, r.Timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// List returns all reports, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Report, error) {
	return s.list(ctx,
		`SELECT id, team_id, description, created_at FROM report ORDER BY created_at DESC`)
}

// ListByTeam returns one team's reports, newest first.
func (s *SQLiteStore) ListByTeam(ctx context.Context, teamID string) ([]domain.Report, error) {
	return s.list(ctx,
		`SELECT id, team_id, description, created_at FROM report WHERE team_id = ? ORDER BY created_at DESC`,
		teamID)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var r domain.Report
		var createdAt string
		if err := rows.Scan(&r.ID, &r.TeamID, &r.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, createdAt)
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}
