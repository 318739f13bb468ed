package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"mainstage/internal/domain/announcement"
	"mainstage/internal/domain/team"
	"mainstage/pkg/metrics"
)

// maxWriteAttempts bounds the retry loop on a lost optimistic-concurrency
// race. Write rates are tiny (a handful of admins), so one retry almost
// always wins; three keeps a pathological interleaving from looping forever.
const maxWriteAttempts = 3

// TeamStoreForAnnouncements defines the store interface needed by the
// announcement orchestrators.
type TeamStoreForAnnouncements interface {
	Get(ctx context.Context, teamID string) (team.Record, error)
	ReplaceAnnouncements(ctx context.Context, teamID string, list []announcement.Announcement, expectedVersion int64) error
}

// FanoutError reports a partial fan-out: some teams took the write, some did
// not. There is no rollback; teams that succeeded keep the announcement.
type FanoutError struct {
	Succeeded []string
	Failed    map[string]error
}

func (e *FanoutError) Error() string {
	teams := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		teams = append(teams, id)
	}
	sort.Strings(teams)
	return fmt.Sprintf("announcement delivery failed for teams: %s", strings.Join(teams, ", "))
}

// --- Send Announcement ---

// SendAnnouncementInput carries input for the send announcement orchestrator.
// An empty ID authors a new announcement; a non-empty ID edits an existing
// one in place on every currently targeted team.
type SendAnnouncementInput struct {
	ID          string
	Title       string
	Content     string
	TargetTeams []string
}

// SendAnnouncementDeps holds dependencies for SendAnnouncement.
type SendAnnouncementDeps struct {
	TeamStore TeamStoreForAnnouncements
	Now       func() time.Time
}

// ExecuteSendAnnouncement fans one announcement out to every target team.
// Each team's write is an independent read-modify-write issued concurrently;
// a failure on one team never rolls back the teams that already took the
// write. Editing removes the prior copy with the same ID before appending,
// but teams dropped from the target list keep their old copy.
// PRE: Title and Content are non-empty; TargetTeams is non-empty
// POST: Every team in FanoutError.Succeeded holds exactly one copy under the
// returned ID; on full success the error is nil
func ExecuteSendAnnouncement(ctx context.Context, input SendAnnouncementInput, deps SendAnnouncementDeps) (announcement.Announcement, error) {
	now := deps.Now()
	a := announcement.Announcement{
		ID:          input.ID,
		Title:       input.Title,
		Content:     input.Content,
		Timestamp:   now.UnixMilli(),
		TargetTeams: input.TargetTeams,
	}
	editing := a.ID != ""
	if !editing {
		a.ID = announcement.NewID(now)
	}

	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}
	if len(a.TargetTeams) == 0 {
		return announcement.Announcement{}, announcement.ErrNoTargetTeams
	}

	// Fan out concurrently and let every team's write run to completion.
	// A WaitGroup rather than a cancel-on-first-error group: aborting the
	// siblings on one failure would only widen the partial-delivery window.
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := make(map[string]error)
	succeeded := make([]string, 0, len(a.TargetTeams))

	for _, teamID := range a.TargetTeams {
		wg.Add(1)
		go func(teamID string) {
			defer wg.Done()
			err := upsertOnTeam(ctx, deps.TeamStore, teamID, a)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[teamID] = err
				return
			}
			succeeded = append(succeeded, teamID)
		}(teamID)
	}
	wg.Wait()
	sort.Strings(succeeded)

	event := "announcement_sent"
	if editing {
		event = "announcement_edited"
	}

	if len(failed) > 0 {
		metrics.RecordFanout("partial")
		slog.Error("announcement_event", "event", event+"_partial",
			"announcement_id", a.ID, "succeeded", len(succeeded), "failed", len(failed))
		return a, &FanoutError{Succeeded: succeeded, Failed: failed}
	}

	metrics.RecordFanout("ok")
	slog.Info("announcement_event", "event", event,
		"announcement_id", a.ID, "title", a.Title, "teams", len(succeeded))
	return a, nil
}

// upsertOnTeam replaces any prior copy of the announcement on one team and
// appends the new entry, retrying on lost write races.
func upsertOnTeam(ctx context.Context, store TeamStoreForAnnouncements, teamID string, a announcement.Announcement) error {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var rec team.Record
		rec, err = store.Get(ctx, teamID)
		if err != nil {
			return err
		}
		list := append(announcement.RemoveByID(rec.Announcements, a.ID), a)
		err = store.ReplaceAnnouncements(ctx, teamID, list, rec.Version)
		if !errors.Is(err, team.ErrVersionConflict) {
			return err
		}
	}
	return err
}

// --- Delete Announcement ---

// DeleteAnnouncementInput carries input for the delete announcement orchestrator.
type DeleteAnnouncementInput struct {
	TeamID         string
	AnnouncementID string
}

// DeleteAnnouncementDeps holds dependencies for DeleteAnnouncement.
type DeleteAnnouncementDeps struct {
	TeamStore TeamStoreForAnnouncements
}

// ExecuteDeleteAnnouncement removes one team's copy of an announcement.
// Other teams that received the same logical announcement keep theirs.
// PRE: TeamID and AnnouncementID are non-empty
// POST: The team's list contains no entry with the given ID; deleting an
// absent ID is a no-op
func ExecuteDeleteAnnouncement(ctx context.Context, input DeleteAnnouncementInput, deps DeleteAnnouncementDeps) error {
	if input.TeamID == "" {
		return errors.New("team ID is required")
	}
	if input.AnnouncementID == "" {
		return errors.New("announcement ID is required")
	}

	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var rec team.Record
		rec, err = deps.TeamStore.Get(ctx, input.TeamID)
		if err != nil {
			return err
		}
		list := announcement.RemoveByID(rec.Announcements, input.AnnouncementID)
		if len(list) == len(rec.Announcements) {
			return nil // nothing to delete
		}
		err = deps.TeamStore.ReplaceAnnouncements(ctx, input.TeamID, list, rec.Version)
		if err == nil {
			slog.Info("announcement_event", "event", "announcement_deleted",
				"announcement_id", input.AnnouncementID, "team_id", input.TeamID)
			return nil
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return err
		}
	}
	return err
}
