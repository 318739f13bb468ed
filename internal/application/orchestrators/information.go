package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"mainstage/internal/domain/team"
)

// TeamStoreForInformation defines the store interface needed by the
// information orchestrators.
type TeamStoreForInformation interface {
	Get(ctx context.Context, teamID string) (team.Record, error)
	UpdateInformation(ctx context.Context, teamID string, info team.Information, expectedVersion int64) error
	UpdateLocations(ctx context.Context, teamID string, locations []team.Location, expectedVersion int64) error
}

// --- Update Information ---

// UpdateInformationInput carries input for the information update orchestrator.
type UpdateInformationInput struct {
	TeamID      string
	Information team.Information
}

// UpdateInformationDeps holds dependencies for UpdateInformation.
type UpdateInformationDeps struct {
	TeamStore TeamStoreForInformation
}

// ExecuteUpdateInformation replaces a team's logistics info block wholesale.
// The admin form always submits the full block, so there is no field merge.
// PRE: Team exists
// POST: Information equals input.Information
func ExecuteUpdateInformation(ctx context.Context, input UpdateInformationInput, deps UpdateInformationDeps) (team.Information, error) {
	if input.TeamID == "" {
		return team.Information{}, errors.New("team ID is required")
	}

	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var rec team.Record
		rec, err = deps.TeamStore.Get(ctx, input.TeamID)
		if err != nil {
			return team.Information{}, err
		}
		err = deps.TeamStore.UpdateInformation(ctx, input.TeamID, input.Information, rec.Version)
		if err == nil {
			slog.Info("information_event", "event", "information_updated",
				"team_id", input.TeamID, "liaisons", len(input.Information.Liaisons))
			return input.Information, nil
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return team.Information{}, err
		}
	}
	return team.Information{}, err
}

// --- Update Locations ---

// UpdateLocationsInput carries input for the nearby locations orchestrator.
type UpdateLocationsInput struct {
	TeamID    string
	Locations []team.Location
}

// UpdateLocationsDeps holds dependencies for UpdateLocations.
type UpdateLocationsDeps struct {
	TeamStore TeamStoreForInformation
}

// ExecuteUpdateLocations replaces a team's nearby locations list wholesale.
// PRE: Team exists
// POST: NearbyLocations equals input.Locations
func ExecuteUpdateLocations(ctx context.Context, input UpdateLocationsInput, deps UpdateLocationsDeps) ([]team.Location, error) {
	if input.TeamID == "" {
		return nil, errors.New("team ID is required")
	}

	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var rec team.Record
		rec, err = deps.TeamStore.Get(ctx, input.TeamID)
		if err != nil {
			return nil, err
		}
		err = deps.TeamStore.UpdateLocations(ctx, input.TeamID, input.Locations, rec.Version)
		if err == nil {
			slog.Info("information_event", "event", "locations_updated",
				"team_id", input.TeamID, "locations", len(input.Locations))
			return input.Locations, nil
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, err
}
