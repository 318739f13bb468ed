package browser_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestSmoke_AdminPublishFlow walks the core admin-to-team loop end to end:
// admin assigns a show order and publishes, then the team view shows the
// schedule instead of the placeholder.
func TestSmoke_AdminPublishFlow(t *testing.T) {
	app := newTestApp(t)

	admin := app.newAPIContext(t)
	login(t, admin, testAdminPasscode)

	// Assign order 3 to tamu
	resp, err := admin.Post("/api/admin/teams/tamu/schedule/order", playwright.APIRequestContextPostOptions{
		Data: map[string]any{"order": 3},
	})
	if err != nil {
		t.Fatalf("assign order: %v", err)
	}
	if resp.Status() != http.StatusOK {
		body, _ := resp.Text()
		t.Fatalf("assign order status = %d, body = %s", resp.Status(), body)
	}

	// Publish the schedule
	resp, err = admin.Post("/api/admin/teams/tamu/schedule/publish", playwright.APIRequestContextPostOptions{
		Data: map[string]any{"published": true},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if resp.Status() != http.StatusOK {
		body, _ := resp.Text()
		t.Fatalf("publish status = %d, body = %s", resp.Status(), body)
	}

	// The team session now sees the published schedule
	team := app.newAPIContext(t)
	login(t, team, testTeamPasscode)

	resp, err = team.Get("/api/team/view")
	if err != nil {
		t.Fatalf("team view: %v", err)
	}
	body, err := resp.Text()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.Status() != http.StatusOK {
		t.Fatalf("team view status = %d, body = %s", resp.Status(), body)
	}
	if !strings.Contains(body, "Performance Order: Team 3") {
		t.Errorf("team view missing published headline: %s", body)
	}
	if strings.Contains(body, "has not been published yet") {
		t.Errorf("team view still shows the placeholder: %s", body)
	}
}

// TestSmoke_AnnouncementFanout sends an announcement and verifies the team
// side renders it.
func TestSmoke_AnnouncementFanout(t *testing.T) {
	app := newTestApp(t)

	admin := app.newAPIContext(t)
	login(t, admin, testAdminPasscode)

	resp, err := admin.Post("/api/admin/announcements", playwright.APIRequestContextPostOptions{
		Data: map[string]any{
			"title":       "Doors open early",
			"content":     "Call time moved to **6 PM**.",
			"targetTeams": []string{"tamu"},
		},
	})
	if err != nil {
		t.Fatalf("send announcement: %v", err)
	}
	if resp.Status() != http.StatusOK {
		body, _ := resp.Text()
		t.Fatalf("send status = %d, body = %s", resp.Status(), body)
	}

	team := app.newAPIContext(t)
	login(t, team, testTeamPasscode)

	resp, err = team.Get("/api/team/view")
	if err != nil {
		t.Fatalf("team view: %v", err)
	}
	body, _ := resp.Text()
	if !strings.Contains(body, "Doors open early") {
		t.Errorf("announcement missing from team view: %s", body)
	}
	if !strings.Contains(body, "<strong>6 PM</strong>") {
		t.Errorf("markdown not rendered: %s", body)
	}
}

// TestSmoke_LoginRejectsBadPasscode confirms an unknown passcode stays logged out.
func TestSmoke_LoginRejectsBadPasscode(t *testing.T) {
	app := newTestApp(t)

	ctx := app.newAPIContext(t)
	resp, err := ctx.Post("/login", playwright.APIRequestContextPostOptions{
		Data: map[string]any{"passcode": "wrong-wrong"},
	})
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	if resp.Status() != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.Status())
	}

	resp, err = ctx.Get("/api/team/view")
	if err != nil {
		t.Fatalf("team view request: %v", err)
	}
	if resp.Status() != http.StatusUnauthorized {
		t.Errorf("unauthenticated view status = %d, want 401", resp.Status())
	}
}
