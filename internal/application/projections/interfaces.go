package projections

import (
	"context"

	domainReport "mainstage/internal/domain/report"
	domainTeam "mainstage/internal/domain/team"
)

// TeamRecordStore interface for team record queries.
type TeamRecordStore interface {
	Get(ctx context.Context, teamID string) (domainTeam.Record, error)
	List(ctx context.Context) ([]domainTeam.Record, error)
}

// ReportStore interface for report queries.
type ReportStore interface {
	List(ctx context.Context) ([]domainReport.Report, error)
	ListByTeam(ctx context.Context, teamID string) ([]domainReport.Report, error)
}
