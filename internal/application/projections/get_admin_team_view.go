package projections

import (
	"context"

	"mainstage/internal/domain/team"
)

// AdminTeamSummary is one row in the admin dashboard's team table.
type AdminTeamSummary struct {
	TeamID            string
	DisplayName       string
	ShowOrder         int // 0 = unassigned
	SchedulePublished bool
	VideoPublished    bool
	HasVideoURL       bool
	Announcements     int
	Version           int64
}

// GetAdminOverviewDeps holds dependencies for GetAdminOverview.
type GetAdminOverviewDeps struct {
	TeamStore TeamRecordStore
}

// QueryGetAdminOverview lists every team with its publication state, for the
// admin dashboard's at-a-glance table.
// POST: Teams are in display-name order (store order)
func QueryGetAdminOverview(ctx context.Context, deps GetAdminOverviewDeps) ([]AdminTeamSummary, error) {
	records, err := deps.TeamStore.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]AdminTeamSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, AdminTeamSummary{
			TeamID:            rec.ID,
			DisplayName:       rec.DisplayName,
			ShowOrder:         rec.Schedule.ShowOrder,
			SchedulePublished: rec.Schedule.IsPublished,
			VideoPublished:    rec.TechVideo.IsPublished,
			HasVideoURL:       rec.TechVideo.HasURL(),
			Announcements:     len(rec.Announcements),
			Version:           rec.Version,
		})
	}
	return summaries, nil
}

// AdminTeamViewResult is the admin-facing projection of one record. Unlike the
// team view there is no publication gating: the admin always sees the stored
// sections, published or not, plus the rendered team view for preview.
type AdminTeamViewResult struct {
	Record  team.Record
	Preview TeamViewResult // what the team currently sees
}

// GetAdminTeamViewQuery carries query parameters.
type GetAdminTeamViewQuery struct {
	TeamID string
}

// GetAdminTeamViewDeps holds dependencies for GetAdminTeamView.
type GetAdminTeamViewDeps struct {
	TeamStore TeamRecordStore
}

// QueryGetAdminTeamView returns the ungated record alongside the gated team
// view, so the admin UI can show "what they see" next to "what is stored".
// PRE: Valid team ID
// POST: Record is normalized; Preview reflects the publication gates
func QueryGetAdminTeamView(ctx context.Context, query GetAdminTeamViewQuery, deps GetAdminTeamViewDeps) (AdminTeamViewResult, error) {
	rec, err := deps.TeamStore.Get(ctx, query.TeamID)
	if err != nil {
		return AdminTeamViewResult{}, err
	}
	rec.Normalize()
	return AdminTeamViewResult{
		Record:  rec,
		Preview: ProjectTeamView(rec),
	}, nil
}
