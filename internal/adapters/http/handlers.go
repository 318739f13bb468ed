package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mainstage/internal/adapters/http/middleware"
	"mainstage/internal/application/orchestrators"
	"mainstage/internal/application/projections"
	accessDomain "mainstage/internal/domain/access"
	announcementDomain "mainstage/internal/domain/announcement"
	reportDomain "mainstage/internal/domain/report"
	scheduleDomain "mainstage/internal/domain/schedule"
	teamDomain "mainstage/internal/domain/team"
	techvideoDomain "mainstage/internal/domain/techvideo"
	"mainstage/pkg/metrics"
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// validationErrs are domain rejections surfaced as 400s rather than 500s.
var validationErrs = []error{
	announcementDomain.ErrEmptyTitle,
	announcementDomain.ErrTitleTooLong,
	announcementDomain.ErrEmptyContent,
	announcementDomain.ErrContentTooLong,
	announcementDomain.ErrNoTargetTeams,
	scheduleDomain.ErrInvalidShowOrder,
	scheduleDomain.ErrMissingShowOrder,
	scheduleDomain.ErrUnknownSection,
	techvideoDomain.ErrMissingURL,
	reportDomain.ErrEmptyDescription,
	reportDomain.ErrDescriptionTooLong,
}

// writeDomainError maps a domain error onto a retry-friendly status code.
// Unknown errors fall through to internalError.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, teamDomain.ErrNotFound), errors.Is(err, accessDomain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, teamDomain.ErrVersionConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		for _, v := range validationErrs {
			if errors.Is(err, v) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		internalError(w, err)
	}
}

// requireSession pulls the session or writes a 401.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
	}
	return sess, ok
}

// resolveTeamID decides which team a read-side request addresses. Team
// sessions are pinned to their own team; viewer and admin sessions pick one
// via the id query parameter.
func resolveTeamID(w http.ResponseWriter, r *http.Request, sess middleware.Session) (string, bool) {
	requested := r.URL.Query().Get("id")
	switch sess.Role {
	case accessDomain.RoleTeam:
		if requested != "" && requested != sess.TeamID {
			writeError(w, http.StatusForbidden, "team sessions may only read their own team")
			return "", false
		}
		return sess.TeamID, true
	case accessDomain.RoleAdmin, accessDomain.RoleViewer:
		if requested == "" {
			writeError(w, http.StatusBadRequest, "missing id")
			return "", false
		}
		return requested, true
	}
	writeError(w, http.StatusForbidden, "forbidden")
	return "", false
}

// adminOnly wraps a handler with the admin role gate.
func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireRole(accessDomain.RoleAdmin)(h)
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)
	mux.HandleFunc("GET /api/session", handleSession)

	mux.HandleFunc("GET /api/team/view", handleTeamView)
	mux.HandleFunc("GET /api/team/live", handleTeamLive)
	mux.HandleFunc("POST /api/team/reports", handleSubmitReport)

	mux.Handle("GET /api/admin/teams", adminOnly(handleAdminOverview))
	mux.Handle("GET /api/admin/teams/{id}/view", adminOnly(handleAdminTeamView))
	mux.Handle("POST /api/admin/teams/{id}/schedule/order", adminOnly(handleAssignShowOrder))
	mux.Handle("POST /api/admin/teams/{id}/schedule/section", adminOnly(handleUpdateScheduleSection))
	mux.Handle("POST /api/admin/teams/{id}/schedule/publish", adminOnly(handleSetSchedulePublished))
	mux.Handle("POST /api/admin/teams/{id}/techvideo", adminOnly(handleUpdateTechVideo))
	mux.Handle("POST /api/admin/teams/{id}/techvideo/publish", adminOnly(handleSetTechVideoPublished))
	mux.Handle("POST /api/admin/teams/{id}/information", adminOnly(handleUpdateInformation))
	mux.Handle("POST /api/admin/teams/{id}/locations", adminOnly(handleUpdateLocations))
	mux.Handle("POST /api/admin/announcements", adminOnly(handleSendAnnouncement))
	mux.Handle("DELETE /api/admin/teams/{id}/announcements/{announcementID}", adminOnly(handleDeleteAnnouncement))
	mux.Handle("GET /api/admin/reports", adminOnly(handleAdminReports))

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", handleHealthz)
}

// handleLogin handles POST /login. The shared passcode alone selects the
// identity; there are no usernames.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.LoginInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form submission")
			return
		}
		input.Passcode = r.FormValue("Passcode")
	} else {
		var body struct {
			Passcode string `json:"passcode"`
		}
		if err := strictDecode(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		input.Passcode = body.Passcode
	}

	deps := orchestrators.LoginDeps{IdentityStore: stores.IdentityStore}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidPasscode) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		internalError(w, err)
		return
	}

	token, err := sessions.Create(result.IdentityID, result.Role, result.TeamID, result.Label)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, sessions.TTL())

	writeJSON(w, http.StatusOK, map[string]string{
		"role":   result.Role,
		"teamId": result.TeamID,
		"label":  result.Label,
	})
}

// handleLogout handles POST /logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("mainstage_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession handles GET /api/session, reporting who is logged in.
func handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"identityId": sess.IdentityID,
		"role":       sess.Role,
		"teamId":     sess.TeamID,
		"label":      sess.Label,
	})
}

// handleTeamView handles GET /api/team/view: the publication-gated projection
// a team sees. Viewer and admin sessions may read any team's view.
func handleTeamView(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	teamID, ok := resolveTeamID(w, r, sess)
	if !ok {
		return
	}

	result, err := projections.QueryGetTeamView(r.Context(),
		projections.GetTeamViewQuery{TeamID: teamID},
		projections.GetTeamViewDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSubmitReport handles POST /api/team/reports. Team sessions file
// against their own team; admin may file against any; viewer writes nothing.
func handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var body struct {
		TeamID      string `json:"teamId"`
		Description string `json:"description"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	teamID := body.TeamID
	switch sess.Role {
	case accessDomain.RoleTeam:
		teamID = sess.TeamID
	case accessDomain.RoleAdmin:
		if teamID == "" {
			writeError(w, http.StatusBadRequest, "missing teamId")
			return
		}
	default:
		writeError(w, http.StatusForbidden, "viewer sessions cannot file reports")
		return
	}

	result, err := orchestrators.ExecuteSubmitReport(r.Context(),
		orchestrators.SubmitReportInput{TeamID: teamID, Description: body.Description},
		orchestrators.SubmitReportDeps{
			ReportStore: stores.ReportStore,
			TeamStore:   stores.TeamStore,
			Notifier:    emailSender,
			NotifyAddr:  reportNotifyAddr,
			Now:         timeNow,
		})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleHealthz handles GET /healthz.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
