package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"mainstage/internal/application/projections"
)

// handleTeamLive handles GET /api/team/live: a Server-Sent Events stream of
// gated team view snapshots. The first event is the current state; every
// committed write to the team record pushes a fresh snapshot. Slow clients
// see coalesced snapshots, never stale ordering.
func handleTeamLive(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	teamID, ok := resolveTeamID(w, r, sess)
	if !ok {
		return
	}

	watcher := watcherFor(stores)
	if watcher == nil {
		writeError(w, http.StatusNotImplemented, "live updates are not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub, err := watcher.Watch(r.Context(), teamID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	slog.Info("live_event", "event", "live_stream_opened", "team_id", teamID, "role", sess.Role)

	for {
		select {
		case <-r.Context().Done():
			slog.Info("live_event", "event", "live_stream_closed", "team_id", teamID)
			return
		case rec, open := <-sub.Updates():
			if !open {
				if err := sub.Err(); err != nil {
					slog.Error("live_event", "event", "live_stream_failed", "team_id", teamID, "error", err)
					fmt.Fprint(w, "event: error\ndata: {\"error\":\"stream terminated\"}\n\n")
					flusher.Flush()
				}
				return
			}
			view := projections.ProjectTeamView(rec)
			data, err := json.Marshal(view)
			if err != nil {
				slog.Error("live_event", "event", "snapshot_encode_failed", "team_id", teamID, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: view\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
