package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mainstage/internal/domain/access"
	"mainstage/internal/domain/team"
)

// EventTeam is one fixed entry in the event lineup.
type EventTeam struct {
	ID          string
	DisplayName string
}

// EventLineup is the fixed eight-team roster for the event. Team records and
// team identities are provisioned from this list at startup.
var EventLineup = []EventTeam{
	{ID: "tamu", DisplayName: "Texas A&M"},
	{ID: "texas", DisplayName: "Texas"},
	{ID: "houston", DisplayName: "Houston"},
	{ID: "utd", DisplayName: "UT Dallas"},
	{ID: "rice", DisplayName: "Rice"},
	{ID: "lsu", DisplayName: "LSU"},
	{ID: "ou", DisplayName: "Oklahoma"},
	{ID: "unt", DisplayName: "North Texas"},
}

// TeamStoreForSeed defines the store interface needed by the seeder.
type TeamStoreForSeed interface {
	Get(ctx context.Context, teamID string) (team.Record, error)
	Create(ctx context.Context, rec team.Record) error
}

// IdentityStoreForSeed defines the identity store interface needed by the seeder.
type IdentityStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, identity access.Identity) error
}

// SeedInput carries the passcodes to provision on first run.
type SeedInput struct {
	AdminPasscode  string
	ViewerPasscode string
	TeamPasscodes  map[string]string // team ID -> passcode
}

// SeedDeps holds dependencies for Seed.
type SeedDeps struct {
	TeamStore     TeamStoreForSeed
	IdentityStore IdentityStoreForSeed
	Now           func() time.Time // optional; defaults to time.Now
}

// ExecuteSeed provisions the fixed lineup of team records and the login
// identities. Safe to run on every startup: existing team records are left
// untouched, and identities are only created when none exist yet, so
// passcode changes after first run go through the database, not the config.
// POST: Every lineup team has a record; identities exist for admin, viewer,
// and each team with a configured passcode
func ExecuteSeed(ctx context.Context, input SeedInput, deps SeedDeps) error {
	created := 0
	for _, entry := range EventLineup {
		_, err := deps.TeamStore.Get(ctx, entry.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, team.ErrNotFound) {
			return fmt.Errorf("seed team %s: %w", entry.ID, err)
		}

		rec := team.Record{ID: entry.ID, DisplayName: entry.DisplayName}
		rec.Normalize()
		if err := deps.TeamStore.Create(ctx, rec); err != nil {
			return fmt.Errorf("seed team %s: %w", entry.ID, err)
		}
		created++
	}
	if created > 0 {
		slog.Info("seed_event", "event", "teams_seeded", "created", created)
	}

	n, err := deps.IdentityStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed identities: %w", err)
	}
	if n > 0 {
		return nil // already provisioned
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	provision := func(id, role, teamID, label, passcode string) error {
		if passcode == "" {
			slog.Warn("seed_event", "event", "identity_skipped", "identity_id", id, "reason", "no_passcode_configured")
			return nil
		}
		identity := access.Identity{ID: id, Role: role, TeamID: teamID, Label: label, CreatedAt: now}
		if err := identity.SetPasscode(passcode); err != nil {
			return fmt.Errorf("seed identity %s: %w", id, err)
		}
		if err := identity.Validate(); err != nil {
			return fmt.Errorf("seed identity %s: %w", id, err)
		}
		if err := deps.IdentityStore.Create(ctx, identity); err != nil {
			return fmt.Errorf("seed identity %s: %w", id, err)
		}
		return nil
	}

	if err := provision("admin", access.RoleAdmin, "", "Organizers", input.AdminPasscode); err != nil {
		return err
	}
	if err := provision("viewer", access.RoleViewer, "", "Spectator", input.ViewerPasscode); err != nil {
		return err
	}
	for _, entry := range EventLineup {
		id := "team-" + entry.ID
		if err := provision(id, access.RoleTeam, entry.ID, entry.DisplayName, input.TeamPasscodes[entry.ID]); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "identities_seeded")
	return nil
}
