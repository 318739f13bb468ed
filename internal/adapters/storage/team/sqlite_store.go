package team

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"mainstage/internal/adapters/storage"
	"mainstage/internal/domain/announcement"
	"mainstage/internal/domain/schedule"
	domain "mainstage/internal/domain/team"
	"mainstage/internal/domain/techvideo"
	"mainstage/pkg/metrics"
)

// Sub-path labels used for write metrics and logging.
const (
	pathRecord        = "record"
	pathSchedule      = "schedule"
	pathTechVideo     = "techVideo"
	pathInformation   = "information"
	pathLocations     = "locations"
	pathAnnouncements = "announcements"
)

// SQLiteStore implements Store using SQLite. When a Feed is attached, every
// committed write synchronously publishes a fresh snapshot of the record to
// that team's subscribers.
type SQLiteStore struct {
	db   storage.SQLDB
	feed *Feed
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithFeed attaches a live feed notified after every committed write.
func WithFeed(feed *Feed) Option {
	return func(s *SQLiteStore) {
		s.feed = feed
	}
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB, opts ...Option) *SQLiteStore {
	s := &SQLiteStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a team record by ID, announcements in insertion order.
// PRE: teamID is non-empty
// POST: Returns a normalized record, or team.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, teamID string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, information, tech_video, schedule, nearby_locations, version
		 FROM team_record WHERE id = ?`, teamID)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, domain.ErrNotFound
		}
		return domain.Record{}, fmt.Errorf("get team record: %w", err)
	}

	rec.Announcements, err = s.loadAnnouncements(ctx, teamID)
	if err != nil {
		return domain.Record{}, fmt.Errorf("get team announcements: %w", err)
	}
	rec.Normalize()
	return rec, nil
}

// List returns all team records ordered by display name.
// POST: Returns normalized records; announcements are loaded per team
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, information, tech_video, schedule, nearby_locations, version
		 FROM team_record ORDER BY display_name`)
	if err != nil {
		return nil, fmt.Errorf("list team records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecordRows(rows)
		if err != nil {
			return nil, fmt.Errorf("list team records: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list team records: %w", err)
	}

	for i := range records {
		records[i].Announcements, err = s.loadAnnouncements(ctx, records[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list team announcements: %w", err)
		}
		records[i].Normalize()
	}
	return records, nil
}

// Create inserts a new team record at version 1.
// PRE: rec has been validated
// POST: Record is persisted; fails if the ID already exists
func (s *SQLiteStore) Create(ctx context.Context, rec domain.Record) error {
	rec.Normalize()
	info, err := json.Marshal(rec.Information)
	if err != nil {
		return fmt.Errorf("create team record: %w", err)
	}
	video, err := json.Marshal(rec.TechVideo)
	if err != nil {
		return fmt.Errorf("create team record: %w", err)
	}
	sched, err := json.Marshal(rec.Schedule)
	if err != nil {
		return fmt.Errorf("create team record: %w", err)
	}
	locations, err := json.Marshal(rec.NearbyLocations)
	if err != nil {
		return fmt.Errorf("create team record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO team_record (id, display_name, information, tech_video, schedule, nearby_locations, version)
		 VALUES (?, ?, ?, ?, ?, ?, 1)`,
		rec.ID, rec.DisplayName, string(info), string(video), string(sched), string(locations))
	if err != nil {
		return fmt.Errorf("create team record: %w", err)
	}
	metrics.RecordWrite(pathRecord)
	return nil
}

// UpdateSchedule replaces the schedule sub-path.
// PRE: expectedVersion is the version the caller read
// POST: Schedule replaced and version bumped, or team.ErrVersionConflict
func (s *SQLiteStore) UpdateSchedule(ctx context.Context, teamID string, sched schedule.Schedule, expectedVersion int64) error {
	sched.Normalize()
	return s.updateColumn(ctx, teamID, "schedule", sched, expectedVersion, pathSchedule)
}

// UpdateTechVideo replaces the tech video sub-path.
// PRE: expectedVersion is the version the caller read
// POST: Tech video replaced and version bumped, or team.ErrVersionConflict
func (s *SQLiteStore) UpdateTechVideo(ctx context.Context, teamID string, v techvideo.TechVideo, expectedVersion int64) error {
	return s.updateColumn(ctx, teamID, "tech_video", v, expectedVersion, pathTechVideo)
}

// UpdateInformation replaces the information sub-path.
// PRE: expectedVersion is the version the caller read
// POST: Information replaced and version bumped, or team.ErrVersionConflict
func (s *SQLiteStore) UpdateInformation(ctx context.Context, teamID string, info domain.Information, expectedVersion int64) error {
	if info.Liaisons == nil {
		info.Liaisons = []domain.Liaison{}
	}
	return s.updateColumn(ctx, teamID, "information", info, expectedVersion, pathInformation)
}

// UpdateLocations replaces the nearby locations sub-path.
// PRE: expectedVersion is the version the caller read
// POST: Locations replaced and version bumped, or team.ErrVersionConflict
func (s *SQLiteStore) UpdateLocations(ctx context.Context, teamID string, locations []domain.Location, expectedVersion int64) error {
	if locations == nil {
		locations = []domain.Location{}
	}
	return s.updateColumn(ctx, teamID, "nearby_locations", locations, expectedVersion, pathLocations)
}

// ReplaceAnnouncements overwrites a team's full announcement list in order.
// PRE: expectedVersion is the version the caller read
// POST: List replaced atomically and version bumped, or team.ErrVersionConflict
func (s *SQLiteStore) ReplaceAnnouncements(ctx context.Context, teamID string, list []announcement.Announcement, expectedVersion int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace announcements: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE team_record SET version = version + 1 WHERE id = ? AND version = ?`,
		teamID, expectedVersion)
	if err != nil {
		return fmt.Errorf("replace announcements: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return s.classifyMiss(ctx, teamID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM announcement WHERE team_id = ?`, teamID); err != nil {
		return fmt.Errorf("replace announcements: %w", err)
	}
	for i, a := range list {
		targets, err := json.Marshal(a.TargetTeams)
		if err != nil {
			return fmt.Errorf("replace announcements: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO announcement (team_id, id, title, content, timestamp_ms, target_teams, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			teamID, a.ID, a.Title, a.Content, a.Timestamp, string(targets), i); err != nil {
			return fmt.Errorf("replace announcements: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace announcements: %w", err)
	}
	metrics.RecordWrite(pathAnnouncements)
	s.notify(ctx, teamID)
	return nil
}

// Watch subscribes to a team's record and primes the subscription with the
// current snapshot, so the first receive always succeeds immediately.
// POST: Returns an active subscription, or team.ErrNotFound
func (s *SQLiteStore) Watch(ctx context.Context, teamID string) (*Subscription, error) {
	if s.feed == nil {
		return nil, errors.New("store has no feed attached")
	}
	sub := s.feed.Subscribe(teamID)
	rec, err := s.Get(ctx, teamID)
	if err != nil {
		sub.Close()
		return nil, err
	}
	// The version guard inside push keeps ordering correct even if a newer
	// snapshot was published between Subscribe and Get.
	sub.push(rec)
	return sub, nil
}

// updateColumn performs a CAS replace of one JSON column.
func (s *SQLiteStore) updateColumn(ctx context.Context, teamID, column string, payload any, expectedVersion int64, path string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE team_record SET `+column+` = ?, version = version + 1 WHERE id = ? AND version = ?`,
		string(data), teamID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return s.classifyMiss(ctx, teamID)
	}
	metrics.RecordWrite(path)
	s.notify(ctx, teamID)
	return nil
}

// classifyMiss distinguishes a missing record from a lost CAS race.
func (s *SQLiteStore) classifyMiss(ctx context.Context, teamID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM team_record WHERE id = ?`, teamID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("classify write miss: %w", err)
	}
	metrics.RecordWriteConflict()
	return domain.ErrVersionConflict
}

// notify publishes a fresh snapshot to the feed after a committed write.
func (s *SQLiteStore) notify(ctx context.Context, teamID string) {
	if s.feed == nil {
		return
	}
	rec, err := s.Get(context.WithoutCancel(ctx), teamID)
	if err != nil {
		slog.Error("feed_snapshot_failed", "team_id", teamID, "error", err)
		s.feed.Fail(teamID, err)
		return
	}
	s.feed.Publish(rec)
}

// loadAnnouncements reads one team's announcements in insertion order.
func (s *SQLiteStore) loadAnnouncements(ctx context.Context, teamID string) ([]announcement.Announcement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, timestamp_ms, target_teams
		 FROM announcement WHERE team_id = ? ORDER BY position`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []announcement.Announcement{}
	for rows.Next() {
		var a announcement.Announcement
		var targets string
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Timestamp, &targets); err != nil {
			return nil, err
		}
		unmarshalLenient(targets, &a.TargetTeams, "target_teams", teamID)
		list = append(list, a)
	}
	return list, rows.Err()
}

// scanRecord scans a single team_record row.
func scanRecord(row *sql.Row) (domain.Record, error) {
	var rec domain.Record
	var info, video, sched, locations string
	err := row.Scan(&rec.ID, &rec.DisplayName, &info, &video, &sched, &locations, &rec.Version)
	if err != nil {
		return domain.Record{}, err
	}
	applyJSONColumns(&rec, info, video, sched, locations)
	return rec, nil
}

// scanRecordRows scans one row from a multi-row result.
func scanRecordRows(rows *sql.Rows) (domain.Record, error) {
	var rec domain.Record
	var info, video, sched, locations string
	err := rows.Scan(&rec.ID, &rec.DisplayName, &info, &video, &sched, &locations, &rec.Version)
	if err != nil {
		return domain.Record{}, err
	}
	applyJSONColumns(&rec, info, video, sched, locations)
	return rec, nil
}

// applyJSONColumns decodes the JSON blocks, defaulting leniently: a corrupt
// block logs a warning and leaves the zero value rather than failing the read.
func applyJSONColumns(rec *domain.Record, info, video, sched, locations string) {
	unmarshalLenient(info, &rec.Information, "information", rec.ID)
	unmarshalLenient(video, &rec.TechVideo, "tech_video", rec.ID)
	unmarshalLenient(sched, &rec.Schedule, "schedule", rec.ID)
	unmarshalLenient(locations, &rec.NearbyLocations, "nearby_locations", rec.ID)
}

// unmarshalLenient decodes a JSON column, logging a warning on failure.
func unmarshalLenient(raw string, v any, field, teamID string) {
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		slog.Warn("team_record: failed to decode column", "field", field, "team_id", teamID, "error", err)
	}
}
