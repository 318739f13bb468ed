package projections

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"mainstage/internal/domain/schedule"
	"mainstage/internal/domain/team"
)

// SchedulePlaceholder is shown on the team view while a schedule is unpublished.
const SchedulePlaceholder = "Your schedule has not been published yet. Check back soon!"

// VideoPlaceholder is shown on the team view while a tech video is unpublished.
const VideoPlaceholder = "Your tech video has not been posted yet."

// AnnouncementsEmptyMessage is the empty-state line for the announcements tab.
const AnnouncementsEmptyMessage = "No announcements yet."

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts announcement markdown to HTML. On a render failure
// the raw text is returned so the announcement still shows.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		slog.Warn("markdown_render_failed", "error", err)
		return md
	}
	return buf.String()
}

// AnnouncementView is one rendered announcement entry.
type AnnouncementView struct {
	ID          string
	Title       string
	ContentHTML string
	SentAt      time.Time
}

// TeamViewResult is the team-facing projection of a record snapshot. Only
// published subsets are present: an unpublished schedule or tech video is
// replaced by its placeholder, regardless of what storage holds. The gate is
// view-level filtering, not storage redaction — the admin projection over the
// same record sees everything.
type TeamViewResult struct {
	TeamID      string
	DisplayName string
	Version     int64

	Announcements      []AnnouncementView
	AnnouncementsEmpty string // empty-state message, "" when announcements exist

	Information     team.Information
	NearbyLocations []team.Location

	SchedulePublished   bool
	ScheduleHeadline    string // "Performance Order: Team N" when published
	Schedule            schedule.Schedule
	SchedulePlaceholder string // set when unpublished

	VideoPublished   bool
	VideoTitle       string
	VideoDescription string
	VideoEmbedURL    string
	VideoPlaceholder string // set when unpublished
}

// GetTeamViewQuery carries query parameters.
type GetTeamViewQuery struct {
	TeamID string
}

// GetTeamViewDeps holds dependencies for GetTeamView.
type GetTeamViewDeps struct {
	TeamStore TeamRecordStore
}

// QueryGetTeamView builds the team-facing view from the stored record.
// PRE: Valid team ID
// POST: Unpublished schedule/video content is suppressed and replaced with
// placeholders; nested collections are never nil
func QueryGetTeamView(ctx context.Context, query GetTeamViewQuery, deps GetTeamViewDeps) (TeamViewResult, error) {
	rec, err := deps.TeamStore.Get(ctx, query.TeamID)
	if err != nil {
		return TeamViewResult{}, err
	}
	return ProjectTeamView(rec), nil
}

// ProjectTeamView applies the publication gates to one record snapshot. Split
// out from the query so the live push path can project snapshots it already
// holds without a second read.
func ProjectTeamView(rec team.Record) TeamViewResult {
	rec.Normalize()

	result := TeamViewResult{
		TeamID:          rec.ID,
		DisplayName:     rec.DisplayName,
		Version:         rec.Version,
		Information:     rec.Information,
		NearbyLocations: rec.NearbyLocations,
		Announcements:   make([]AnnouncementView, 0, len(rec.Announcements)),
	}

	for _, a := range rec.Announcements {
		result.Announcements = append(result.Announcements, AnnouncementView{
			ID:          a.ID,
			Title:       a.Title,
			ContentHTML: renderMarkdown(a.Content),
			SentAt:      a.CreatedAt(),
		})
	}
	if len(result.Announcements) == 0 {
		result.AnnouncementsEmpty = AnnouncementsEmptyMessage
	}

	if rec.Schedule.IsPublished {
		result.SchedulePublished = true
		result.Schedule = rec.Schedule
		if rec.Schedule.HasOrder() {
			result.ScheduleHeadline = fmt.Sprintf("Performance Order: Team %d", rec.Schedule.ShowOrder)
		}
	} else {
		result.SchedulePlaceholder = SchedulePlaceholder
	}

	if rec.TechVideo.IsPublished && rec.TechVideo.HasURL() {
		result.VideoPublished = true
		result.VideoTitle = rec.TechVideo.Title
		result.VideoDescription = rec.TechVideo.Description
		result.VideoEmbedURL = rec.TechVideo.EmbedURL()
	} else {
		result.VideoPlaceholder = VideoPlaceholder
	}

	return result
}
