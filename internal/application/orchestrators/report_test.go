package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mainstage/internal/domain/report"
	"mainstage/internal/domain/team"
)

// mockReportStore records created reports.
type mockReportStore struct {
	reports []report.Report
	err     error
}

func (s *mockReportStore) Create(ctx context.Context, r report.Report) error {
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, r)
	return nil
}

// mockNotifier records sent emails.
type mockNotifier struct {
	to, subject, body string
	calls             int
	err               error
}

func (n *mockNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	n.calls++
	n.to, n.subject, n.body = to, subject, htmlBody
	return n.err
}

// TestExecuteSubmitReport verifies the report is persisted and the organizers
// are notified.
func TestExecuteSubmitReport(t *testing.T) {
	teams := newMockTeamStore("tamu")
	reports := &mockReportStore{}
	notifier := &mockNotifier{}

	r, err := ExecuteSubmitReport(context.Background(), SubmitReportInput{
		TeamID: "tamu", Description: "Green room AC is broken",
	}, SubmitReportDeps{
		ReportStore: reports,
		TeamStore:   teams,
		Notifier:    notifier,
		NotifyAddr:  "ops@mainstage.example",
		Now:         fixedNow,
	})
	if err != nil {
		t.Fatalf("ExecuteSubmitReport: %v", err)
	}

	if r.ID == "" {
		t.Error("report ID should be generated")
	}
	if !r.Timestamp.Equal(fixedNow()) {
		t.Errorf("timestamp = %v", r.Timestamp)
	}
	if len(reports.reports) != 1 {
		t.Fatalf("persisted %d reports, want 1", len(reports.reports))
	}
	if notifier.calls != 1 || notifier.to != "ops@mainstage.example" {
		t.Errorf("notifier calls = %d to %q", notifier.calls, notifier.to)
	}
	if !strings.Contains(notifier.subject, "tamu") {
		t.Errorf("subject = %q, want the team display name", notifier.subject)
	}
	if !strings.Contains(notifier.body, "Green room AC is broken") {
		t.Errorf("body = %q, want the description", notifier.body)
	}
}

// TestExecuteSubmitReport_NotifyFailureIsBestEffort verifies a failed email
// never fails the submission.
func TestExecuteSubmitReport_NotifyFailureIsBestEffort(t *testing.T) {
	teams := newMockTeamStore("tamu")
	reports := &mockReportStore{}
	notifier := &mockNotifier{err: errors.New("smtp down")}

	_, err := ExecuteSubmitReport(context.Background(), SubmitReportInput{
		TeamID: "tamu", Description: "Stage monitor dead",
	}, SubmitReportDeps{
		ReportStore: reports, TeamStore: teams,
		Notifier: notifier, NotifyAddr: "ops@mainstage.example", Now: fixedNow,
	})
	if err != nil {
		t.Fatalf("submission must succeed despite notify failure: %v", err)
	}
	if len(reports.reports) != 1 {
		t.Errorf("persisted %d reports, want 1", len(reports.reports))
	}
}

// TestExecuteSubmitReport_NoNotifierConfigured verifies the email is optional.
func TestExecuteSubmitReport_NoNotifierConfigured(t *testing.T) {
	teams := newMockTeamStore("tamu")
	reports := &mockReportStore{}

	_, err := ExecuteSubmitReport(context.Background(), SubmitReportInput{
		TeamID: "tamu", Description: "Lost a prop",
	}, SubmitReportDeps{ReportStore: reports, TeamStore: teams, Now: fixedNow})
	if err != nil {
		t.Fatalf("ExecuteSubmitReport: %v", err)
	}
}

// TestExecuteSubmitReport_UnknownTeam verifies the not-found path writes nothing.
func TestExecuteSubmitReport_UnknownTeam(t *testing.T) {
	teams := newMockTeamStore()
	reports := &mockReportStore{}

	_, err := ExecuteSubmitReport(context.Background(), SubmitReportInput{
		TeamID: "ghost", Description: "x",
	}, SubmitReportDeps{ReportStore: reports, TeamStore: teams, Now: fixedNow})
	if !errors.Is(err, team.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if len(reports.reports) != 0 {
		t.Error("nothing should be persisted for an unknown team")
	}
}

// TestExecuteSubmitReport_Validation verifies domain validation blocks the write.
func TestExecuteSubmitReport_Validation(t *testing.T) {
	teams := newMockTeamStore("tamu")
	reports := &mockReportStore{}

	_, err := ExecuteSubmitReport(context.Background(), SubmitReportInput{
		TeamID: "tamu", Description: "",
	}, SubmitReportDeps{ReportStore: reports, TeamStore: teams, Now: fixedNow})
	if err == nil {
		t.Fatal("expected validation error for empty description")
	}
	if len(reports.reports) != 0 {
		t.Error("nothing should be persisted on validation failure")
	}
}
