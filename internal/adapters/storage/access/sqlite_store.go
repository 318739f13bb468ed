package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mainstage/internal/adapters/storage"
	domain "mainstage/internal/domain/access"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create persists a new identity.
// PRE: identity has been validated and PasscodeHash is set
// POST: Identity is persisted; fails if the ID already exists
func (s *SQLiteStore) Create(ctx context.Context, identity domain.Identity) error {
	var teamID any
	if identity.TeamID != "" {
		teamID = identity.TeamID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO passcode (id, role, team_id, label, passcode_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		identity.ID, identity.Role, teamID, identity.Label, identity.PasscodeHash,
		identity.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

// Get retrieves an identity by ID.
// POST: Returns the identity, or access.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Identity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, role, team_id, label, passcode_hash, created_at FROM passcode WHERE id = ?`, id)

	identity, err := scanIdentity(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Identity{}, domain.ErrNotFound
		}
		return domain.Identity{}, fmt.Errorf("get identity: %w", err)
	}
	return identity, nil
}

// List returns all identities ordered by ID.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Identity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, team_id, label, passcode_hash, created_at FROM passcode ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return identities, nil
}

// Count returns the number of identities. Used by the seeder to decide
// whether passcodes have already been provisioned.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passcode`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return n, nil
}

func scanIdentity(scan func(dest ...any) error) (domain.Identity, error) {
	var identity domain.Identity
	var teamID sql.NullString
	var createdAt string
	err := scan(&identity.ID, &identity.Role, &teamID, &identity.Label, &identity.PasscodeHash, &createdAt)
	if err != nil {
		return domain.Identity{}, err
	}
	identity.TeamID = teamID.String
	identity.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return identity, nil
}
