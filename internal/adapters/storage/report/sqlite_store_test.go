package report

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"mainstage/internal/adapters/storage"
	domain "mainstage/internal/domain/report"
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

// TestSQLiteStore_CreateAndList verifies a round trip, newest first.
func TestSQLiteStore_CreateAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)
	older := domain.Report{ID: "r1", TeamID: "tamu", Description: "Monitor feed dropped", Timestamp: base}
	newer := domain.Report{ID: "r2", TeamID: "rice", Description: "Green room AC broken", Timestamp: base.Add(time.Hour)}

	if err := store.Create(ctx, older); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, newer); err != nil {
		t.Fatalf("Create: %v", err)
	}

	reports, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].ID != "r2" || reports[1].ID != "r1" {
		t.Errorf("order = [%s, %s], want newest first", reports[0].ID, reports[1].ID)
	}
	if !reports[1].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", reports[1].Timestamp, base)
	}
}

// TestSQLiteStore_ListByTeam verifies scoping to one team.
func TestSQLiteStore_ListByTeam(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)

	store.Create(ctx, domain.Report{ID: "r1", TeamID: "tamu", Description: "a", Timestamp: now})
	store.Create(ctx, domain.Report{ID: "r2", TeamID: "rice", Description: "b", Timestamp: now})
	store.Create(ctx, domain.Report{ID: "r3", TeamID: "tamu", Description: "c", Timestamp: now.Add(time.Minute)})

	reports, err := store.ListByTeam(ctx, "tamu")
	if err != nil {
		t.Fatalf("ListByTeam: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	for _, r := range reports {
		if r.TeamID != "tamu" {
			t.Errorf("report %s has team %q", r.ID, r.TeamID)
		}
	}
	if reports[0].ID != "r3" {
		t.Errorf("first = %s, want r3 (newest)", reports[0].ID)
	}
}

// TestSQLiteStore_ListEmpty verifies listing with no rows.
func TestSQLiteStore_ListEmpty(t *testing.T) {
	store := setupTestStore(t)

	reports, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("got %d reports, want 0", len(reports))
	}
}

// TestSQLiteStore_DuplicateID verifies the primary key is enforced.
func TestSQLiteStore_DuplicateID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := store.Create(ctx, domain.Report{ID: "r1", TeamID: "tamu", Description: "a", Timestamp: now}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, domain.Report{ID: "r1", TeamID: "rice", Description: "b", Timestamp: now}); err == nil {
		t.Error("expected error on duplicate report ID")
	}
}
