package access

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"mainstage/internal/adapters/storage"
	domain "mainstage/internal/domain/access"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	return NewSQLiteStore(db)
}

// TestSQLiteStore_CreateAndGet verifies a round trip including the team scope.
func TestSQLiteStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	identity := domain.Identity{
		ID:        "team-tamu",
		Role:      domain.RoleTeam,
		TeamID:    "tamu",
		Label:     "Texas A&M",
		CreatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := identity.SetPasscode("gig-em-2026"); err != nil {
		t.Fatalf("SetPasscode: %v", err)
	}
	if err := store.Create(ctx, identity); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, "team-tamu")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Role != domain.RoleTeam || got.TeamID != "tamu" || got.Label != "Texas A&M" {
		t.Errorf("got %+v", got)
	}
	if err := got.CheckPasscode("gig-em-2026"); err != nil {
		t.Errorf("stored hash rejects the passcode: %v", err)
	}
	if !got.CreatedAt.Equal(identity.CreatedAt) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, identity.CreatedAt)
	}
}

// TestSQLiteStore_GetNotFound verifies the sentinel error.
func TestSQLiteStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_AdminHasNoTeam verifies a NULL team_id round-trips empty.
func TestSQLiteStore_AdminHasNoTeam(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	admin := domain.Identity{ID: "admin", Role: domain.RoleAdmin, Label: "Organizers", CreatedAt: time.Now()}
	admin.SetPasscode("backstage-key")
	if err := store.Create(ctx, admin); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, "admin")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TeamID != "" {
		t.Errorf("admin team ID = %q, want empty", got.TeamID)
	}
}

// TestSQLiteStore_ListAndCount verifies ordering and the seeder probe.
func TestSQLiteStore_ListAndCount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("initial count = %d, want 0", n)
	}

	for _, id := range []string{"viewer", "admin", "team-rice"} {
		identity := domain.Identity{ID: id, Role: domain.RoleViewer, Label: id, CreatedAt: time.Now()}
		identity.SetPasscode("spectate")
		if err := store.Create(ctx, identity); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	identities, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"admin", "team-rice", "viewer"}
	if len(identities) != len(want) {
		t.Fatalf("got %d identities, want %d", len(identities), len(want))
	}
	for i, w := range want {
		if identities[i].ID != w {
			t.Errorf("identities[%d] = %q, want %q", i, identities[i].ID, w)
		}
	}

	n, _ = store.Count(ctx)
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}
