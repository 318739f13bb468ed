package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mainstage/internal/adapters/http/middleware"
	teamStore "mainstage/internal/adapters/storage/team"
	"mainstage/internal/application/projections"
	teamDomain "mainstage/internal/domain/team"
)

// feedWatcher backs the live handler with a real feed, priming each
// subscription with the current mock-store snapshot like the SQLite store does.
type feedWatcher struct {
	feed  *teamStore.Feed
	teams *mockTeamStore
}

func (f *feedWatcher) Watch(ctx context.Context, teamID string) (*teamStore.Subscription, error) {
	rec, err := f.teams.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	sub := f.feed.Subscribe(teamID)
	f.feed.Publish(rec)
	return sub, nil
}

// TestHandleTeamLive_StreamsSnapshots verifies the SSE stream opens with the
// current snapshot and carries subsequent committed writes.
func TestHandleTeamLive_StreamsSnapshots(t *testing.T) {
	teams, _, _ := setupWebTest(t, teamDomain.Record{ID: "tamu", DisplayName: "Texas A&M"})
	watcher := &feedWatcher{feed: teamStore.NewFeed(), teams: teams}
	stores.TeamWatcher = watcher

	ctx, cancel := context.WithCancel(context.Background())
	sess := teamSession("tamu")
	req := httptest.NewRequest("GET", "/api/team/live", nil)
	req = req.WithContext(middleware.ContextWithSession(ctx, sess))
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handleTeamLive(rec, req)
	}()

	// The priming snapshot is queued before the handler starts reading; give
	// the loop a moment to drain it, then push a second committed snapshot.
	time.Sleep(50 * time.Millisecond)
	watcher.feed.Publish(teamDomain.Record{ID: "tamu", DisplayName: "Texas A&M", Version: 2})
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not exit after context cancellation")
	}

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if strings.Count(body, "event: view") < 2 {
		t.Errorf("expected at least two view events, body:\n%s", body)
	}

	// Decode the first data frame; JSON escapes & in the raw stream.
	var snap projections.TeamViewResult
	decoded := false
	for _, line := range strings.Split(body, "\n") {
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			if err := json.Unmarshal([]byte(data), &snap); err != nil {
				t.Fatalf("decode snapshot: %v", err)
			}
			decoded = true
			break
		}
	}
	if !decoded {
		t.Fatalf("no data frame in body:\n%s", body)
	}
	if snap.DisplayName != "Texas A&M" {
		t.Errorf("snapshot display name = %q", snap.DisplayName)
	}
}

// TestHandleTeamLive_UnknownTeam verifies the 404 path before streaming starts.
func TestHandleTeamLive_UnknownTeam(t *testing.T) {
	teams, _, _ := setupWebTest(t)
	stores.TeamWatcher = &feedWatcher{feed: teamStore.NewFeed(), teams: teams}

	sess := adminSession()
	req := jsonRequest("GET", "/api/team/live?id=ghost", "", &sess)
	rec := httptest.NewRecorder()
	handleTeamLive(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestHandleTeamLive_FeedFailure verifies a terminal feed error ends the
// stream with an error event.
func TestHandleTeamLive_FeedFailure(t *testing.T) {
	teams, _, _ := setupWebTest(t, teamDomain.Record{ID: "tamu", DisplayName: "Texas A&M"})
	watcher := &feedWatcher{feed: teamStore.NewFeed(), teams: teams}
	stores.TeamWatcher = watcher

	sess := teamSession("tamu")
	req := jsonRequest("GET", "/api/team/live", "", &sess)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handleTeamLive(rec, req)
	}()

	time.Sleep(50 * time.Millisecond)
	watcher.feed.Fail("tamu", context.DeadlineExceeded)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not exit after feed failure")
	}

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("expected an error event, body:\n%s", rec.Body.String())
	}
}
