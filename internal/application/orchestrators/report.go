package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mainstage/internal/domain/report"
	"mainstage/internal/domain/team"
)

// ReportStore defines the interface for report persistence.
type ReportStore interface {
	Create(ctx context.Context, r report.Report) error
}

// TeamStoreForReports looks up the reporting team for display names.
type TeamStoreForReports interface {
	Get(ctx context.Context, teamID string) (team.Record, error)
}

// ReportNotifier sends the organizer notification email.
type ReportNotifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SubmitReportInput carries input for the submit report orchestrator.
type SubmitReportInput struct {
	TeamID      string
	Description string
}

// SubmitReportDeps holds dependencies for SubmitReport.
type SubmitReportDeps struct {
	ReportStore ReportStore
	TeamStore   TeamStoreForReports
	Notifier    ReportNotifier // optional
	NotifyAddr  string
	Now         func() time.Time
}

// ExecuteSubmitReport records an incident report from a team and notifies the
// organizers. The email is best effort: a delivery failure is logged but
// never fails the submission, the report is already persisted by then.
// PRE: Team exists; Description is non-empty
// POST: Report persisted with a generated ID
func ExecuteSubmitReport(ctx context.Context, input SubmitReportInput, deps SubmitReportDeps) (report.Report, error) {
	rec, err := deps.TeamStore.Get(ctx, input.TeamID)
	if err != nil {
		return report.Report{}, err
	}

	r := report.Report{
		ID:          uuid.New().String(),
		TeamID:      input.TeamID,
		Description: input.Description,
		Timestamp:   deps.Now(),
	}
	if err := r.Validate(); err != nil {
		return report.Report{}, err
	}

	if err := deps.ReportStore.Create(ctx, r); err != nil {
		return report.Report{}, err
	}
	slog.Info("report_event", "event", "report_submitted", "report_id", r.ID, "team_id", r.TeamID)

	if deps.Notifier != nil && deps.NotifyAddr != "" {
		subject := fmt.Sprintf("Incident report from %s", rec.DisplayName)
		body := fmt.Sprintf("<p><strong>%s</strong> reported at %s:</p><p>%s</p>",
			rec.DisplayName, r.Timestamp.Format(time.RFC1123), r.Description)
		if err := deps.Notifier.Send(ctx, deps.NotifyAddr, subject, body); err != nil {
			slog.Error("report_event", "event", "report_notify_failed", "report_id", r.ID, "error", err)
		}
	}

	return r, nil
}
