package web

import (
	"errors"
	"net/http"

	"mainstage/internal/application/orchestrators"
	"mainstage/internal/application/projections"
	"mainstage/internal/domain/schedule"
	"mainstage/internal/domain/team"
	"mainstage/internal/domain/techvideo"
)

// handleAdminOverview handles GET /api/admin/teams: every team with its
// publication state, for the dashboard table.
func handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetAdminOverview(r.Context(),
		projections.GetAdminOverviewDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAdminTeamView handles GET /api/admin/teams/{id}/view: the ungated
// record plus the gated preview of what the team currently sees.
func handleAdminTeamView(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetAdminTeamView(r.Context(),
		projections.GetAdminTeamViewQuery{TeamID: r.PathValue("id")},
		projections.GetAdminTeamViewDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAssignShowOrder handles POST /api/admin/teams/{id}/schedule/order.
func handleAssignShowOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Order int `json:"order"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteAssignShowOrder(r.Context(),
		orchestrators.AssignShowOrderInput{TeamID: r.PathValue("id"), Order: body.Order},
		orchestrators.AssignShowOrderDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUpdateScheduleSection handles POST /api/admin/teams/{id}/schedule/section.
func handleUpdateScheduleSection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Section string           `json:"section"`
		Events  []schedule.Event `json:"events"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteUpdateScheduleSection(r.Context(),
		orchestrators.UpdateScheduleSectionInput{
			TeamID:  r.PathValue("id"),
			Section: body.Section,
			Events:  body.Events,
		},
		orchestrators.UpdateScheduleSectionDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSetSchedulePublished handles POST /api/admin/teams/{id}/schedule/publish.
func handleSetSchedulePublished(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Published bool `json:"published"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteSetSchedulePublished(r.Context(),
		orchestrators.SetSchedulePublishedInput{TeamID: r.PathValue("id"), Published: body.Published},
		orchestrators.SetSchedulePublishedDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUpdateTechVideo handles POST /api/admin/teams/{id}/techvideo. The body
// is the full video block; the write replaces it wholesale.
func handleUpdateTechVideo(w http.ResponseWriter, r *http.Request) {
	var body techvideo.TechVideo
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteUpdateTechVideo(r.Context(),
		orchestrators.UpdateTechVideoInput{TeamID: r.PathValue("id"), Video: body},
		orchestrators.UpdateTechVideoDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSetTechVideoPublished handles POST /api/admin/teams/{id}/techvideo/publish.
func handleSetTechVideoPublished(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Published bool `json:"published"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteSetTechVideoPublished(r.Context(),
		orchestrators.SetTechVideoPublishedInput{TeamID: r.PathValue("id"), Published: body.Published},
		orchestrators.SetTechVideoPublishedDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUpdateInformation handles POST /api/admin/teams/{id}/information.
func handleUpdateInformation(w http.ResponseWriter, r *http.Request) {
	var body team.Information
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteUpdateInformation(r.Context(),
		orchestrators.UpdateInformationInput{TeamID: r.PathValue("id"), Information: body},
		orchestrators.UpdateInformationDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUpdateLocations handles POST /api/admin/teams/{id}/locations.
func handleUpdateLocations(w http.ResponseWriter, r *http.Request) {
	var body []team.Location
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteUpdateLocations(r.Context(),
		orchestrators.UpdateLocationsInput{TeamID: r.PathValue("id"), Locations: body},
		orchestrators.UpdateLocationsDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSendAnnouncement handles POST /api/admin/announcements. A non-empty id
// edits an existing announcement in place on every targeted team.
func handleSendAnnouncement(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Content     string   `json:"content"`
		TargetTeams []string `json:"targetTeams"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteSendAnnouncement(r.Context(),
		orchestrators.SendAnnouncementInput{
			ID:          body.ID,
			Title:       body.Title,
			Content:     body.Content,
			TargetTeams: body.TargetTeams,
		},
		orchestrators.SendAnnouncementDeps{TeamStore: stores.TeamStore, Now: timeNow})
	if err != nil {
		var fanout *orchestrators.FanoutError
		if errors.As(err, &fanout) {
			// Partial delivery: teams that took the write keep it, report both sides.
			failed := make(map[string]string, len(fanout.Failed))
			for id, ferr := range fanout.Failed {
				failed[id] = ferr.Error()
			}
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":     err.Error(),
				"id":        result.ID,
				"succeeded": fanout.Succeeded,
				"failed":    failed,
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDeleteAnnouncement handles
// DELETE /api/admin/teams/{id}/announcements/{announcementID}. Only the named
// team's copy is removed; other targeted teams keep theirs.
func handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteAnnouncement(r.Context(),
		orchestrators.DeleteAnnouncementInput{
			TeamID:         r.PathValue("id"),
			AnnouncementID: r.PathValue("announcementID"),
		},
		orchestrators.DeleteAnnouncementDeps{TeamStore: stores.TeamStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminReports handles GET /api/admin/reports, newest first, optionally
// filtered to one team via the team query parameter.
func handleAdminReports(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("team")

	var (
		reports any
		err     error
	)
	if teamID != "" {
		reports, err = stores.ReportStore.ListByTeam(r.Context(), teamID)
	} else {
		reports, err = stores.ReportStore.List(r.Context())
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}
