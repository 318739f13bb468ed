package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"mainstage/internal/domain/schedule"
	"mainstage/internal/domain/team"
)

// TeamStoreForSchedule defines the store interface needed by the schedule
// orchestrators.
type TeamStoreForSchedule interface {
	Get(ctx context.Context, teamID string) (team.Record, error)
	UpdateSchedule(ctx context.Context, teamID string, s schedule.Schedule, expectedVersion int64) error
}

// --- Assign Show Order ---

// AssignShowOrderInput carries input for the assign show order orchestrator.
type AssignShowOrderInput struct {
	TeamID string
	Order  int
}

// AssignShowOrderDeps holds dependencies for AssignShowOrder.
type AssignShowOrderDeps struct {
	TeamStore TeamStoreForSchedule
}

// ExecuteAssignShowOrder replaces a team's schedule wholesale with the canned
// template for the given performance slot. Slot timing is precomputed per
// order, not edited per team. The published flag carries over from the
// schedule being replaced, so re-assigning an already published team does not
// hide its schedule.
// PRE: Order is within 1..8; team exists
// POST: Schedule equals the slot template with the prior IsPublished preserved
func ExecuteAssignShowOrder(ctx context.Context, input AssignShowOrderInput, deps AssignShowOrderDeps) (schedule.Schedule, error) {
	template, err := schedule.TemplateForOrder(input.Order)
	if err != nil {
		return schedule.Schedule{}, err
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var rec team.Record
		rec, err = deps.TeamStore.Get(ctx, input.TeamID)
		if err != nil {
			return schedule.Schedule{}, err
		}

		next := template
		next.IsPublished = rec.Schedule.IsPublished

		err = deps.TeamStore.UpdateSchedule(ctx, input.TeamID, next, rec.Version)
		if err == nil {
			slog.Info("schedule_event", "event", "show_order_assigned",
				"team_id", input.TeamID, "order", input.Order, "published", next.IsPublished)
			return next, nil
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return schedule.Schedule{}, err
		}
	}
	return schedule.Schedule{}, err
}

// --- Update Schedule Section ---

// UpdateScheduleSectionInput carries input for the section override orchestrator.
type UpdateScheduleSectionInput struct {
	TeamID  string
	Section string
	Events  []schedule.Event
}

// UpdateScheduleSectionDeps holds dependencies for UpdateScheduleSection.
type UpdateScheduleSectionDeps struct {
	TeamStore TeamStoreForSchedule
}

// ExecuteUpdateScheduleSection overwrites one named section of a team's
// schedule, leaving the other sections and flags untouched. This is the
// escape hatch for per-team deviations from the slot template.
// PRE: Section is a valid section key; team exists
// POST: Only the named section changed
func ExecuteUpdateScheduleSection(ctx context.Context, input UpdateScheduleSectionInput, deps UpdateScheduleSectionDeps) (schedule.Schedule, error) {
	if input.TeamID == "" {
		return schedule.Schedule{}, errors.New("team ID is required")
	}

	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var rec team.Record
		rec, err = deps.TeamStore.Get(ctx, input.TeamID)
		if err != nil {
			return schedule.Schedule{}, err
		}

		next := rec.Schedule
		if err := next.ReplaceSection(input.Section, input.Events); err != nil {
			return schedule.Schedule{}, err
		}

		err = deps.TeamStore.UpdateSchedule(ctx, input.TeamID, next, rec.Version)
		if err == nil {
			slog.Info("schedule_event", "event", "section_updated",
				"team_id", input.TeamID, "section", input.Section, "events", len(input.Events))
			return next, nil
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return schedule.Schedule{}, err
		}
	}
	return schedule.Schedule{}, err
}

// --- Set Schedule Published ---

// SetSchedulePublishedInput carries input for the publish toggle orchestrator.
type SetSchedulePublishedInput struct {
	TeamID    string
	Published bool
}

// SetSchedulePublishedDeps holds dependencies for SetSchedulePublished.
type SetSchedulePublishedDeps struct {
	TeamStore TeamStoreForSchedule
}

// ExecuteSetSchedulePublished toggles team-side visibility of a schedule.
// Publishing requires an assigned show order; unpublishing is always allowed.
// PRE: Team exists
// POST: IsPublished equals input.Published, or ErrMissingShowOrder
func ExecuteSetSchedulePublished(ctx context.Context, input SetSchedulePublishedInput, deps SetSchedulePublishedDeps) (schedule.Schedule, error) {
	if input.TeamID == "" {
		return schedule.Schedule{}, errors.New("team ID is required")
	}

	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var rec team.Record
		rec, err = deps.TeamStore.Get(ctx, input.TeamID)
		if err != nil {
			return schedule.Schedule{}, err
		}

		next := rec.Schedule
		if input.Published {
			if err := next.CanPublish(); err != nil {
				return schedule.Schedule{}, err
			}
		}
		next.IsPublished = input.Published

		err = deps.TeamStore.UpdateSchedule(ctx, input.TeamID, next, rec.Version)
		if err == nil {
			slog.Info("schedule_event", "event", "schedule_publish_toggled",
				"team_id", input.TeamID, "published", input.Published)
			return next, nil
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return schedule.Schedule{}, err
		}
	}
	return schedule.Schedule{}, err
}
