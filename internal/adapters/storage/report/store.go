package report

import (
	"context"

	"mainstage/internal/domain/report"
)

// Store defines the persistence interface for incident reports.
type Store interface {
	Create(ctx context.Context, r report.Report) error
	List(ctx context.Context) ([]report.Report, error)
	ListByTeam(ctx context.Context, teamID string) ([]report.Report, error)
}
