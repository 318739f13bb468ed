package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"mainstage/internal/domain/team"
	"mainstage/internal/domain/techvideo"
)

// TeamStoreForTechVideo defines the store interface needed by the tech video
// orchestrators.
type TeamStoreForTechVideo interface {
	Get(ctx context.Context, teamID string) (team.Record, error)
	UpdateTechVideo(ctx context.Context, teamID string, v techvideo.TechVideo, expectedVersion int64) error
}

// --- Update Tech Video ---

// UpdateTechVideoInput carries input for the tech video update orchestrator.
type UpdateTechVideoInput struct {
	TeamID string
	Video  techvideo.TechVideo
}

// UpdateTechVideoDeps holds dependencies for UpdateTechVideo.
type UpdateTechVideoDeps struct {
	TeamStore TeamStoreForTechVideo
}

// ExecuteUpdateTechVideo replaces a team's tech video block wholesale.
// Clearing both URLs while the video is published unpublishes it, since a
// published video without a source cannot render.
// PRE: Team exists
// POST: TechVideo equals input.Video (IsPublished forced false when no URL)
func ExecuteUpdateTechVideo(ctx context.Context, input UpdateTechVideoInput, deps UpdateTechVideoDeps) (techvideo.TechVideo, error) {
	if input.TeamID == "" {
		return techvideo.TechVideo{}, errors.New("team ID is required")
	}

	next := input.Video
	if !next.HasURL() {
		next.IsPublished = false
	}

	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var rec team.Record
		rec, err = deps.TeamStore.Get(ctx, input.TeamID)
		if err != nil {
			return techvideo.TechVideo{}, err
		}
		err = deps.TeamStore.UpdateTechVideo(ctx, input.TeamID, next, rec.Version)
		if err == nil {
			slog.Info("techvideo_event", "event", "tech_video_updated",
				"team_id", input.TeamID, "has_url", next.HasURL())
			return next, nil
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return techvideo.TechVideo{}, err
		}
	}
	return techvideo.TechVideo{}, err
}

// --- Set Tech Video Published ---

// SetTechVideoPublishedInput carries input for the publish toggle orchestrator.
type SetTechVideoPublishedInput struct {
	TeamID    string
	Published bool
}

// SetTechVideoPublishedDeps holds dependencies for SetTechVideoPublished.
type SetTechVideoPublishedDeps struct {
	TeamStore TeamStoreForTechVideo
}

// ExecuteSetTechVideoPublished toggles team-side visibility of a tech video.
// Publishing requires at least one source URL.
// PRE: Team exists
// POST: IsPublished equals input.Published, or techvideo.ErrMissingURL
func ExecuteSetTechVideoPublished(ctx context.Context, input SetTechVideoPublishedInput, deps SetTechVideoPublishedDeps) (techvideo.TechVideo, error) {
	if input.TeamID == "" {
		return techvideo.TechVideo{}, errors.New("team ID is required")
	}

	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var rec team.Record
		rec, err = deps.TeamStore.Get(ctx, input.TeamID)
		if err != nil {
			return techvideo.TechVideo{}, err
		}

		video := rec.TechVideo
		if input.Published {
			if err := video.CanPublish(); err != nil {
				return techvideo.TechVideo{}, err
			}
		}
		video.IsPublished = input.Published

		err = deps.TeamStore.UpdateTechVideo(ctx, input.TeamID, video, rec.Version)
		if err == nil {
			slog.Info("techvideo_event", "event", "tech_video_publish_toggled",
				"team_id", input.TeamID, "published", input.Published)
			return video, nil
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return techvideo.TechVideo{}, err
		}
	}
	return techvideo.TechVideo{}, err
}
