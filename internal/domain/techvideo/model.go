package techvideo

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrMissingURL = errors.New("tech video cannot be published without a video URL")
)

// TechVideo is the tech-rehearsal recording link shared with a team.
// Exactly one of DriveURL or YouTubeURL is normally set; DriveURL wins when
// both are present. The IsPublished gate controls team-side visibility only —
// storage never redacts, the admin view always sees the full value.
type TechVideo struct {
	Title       string `json:"title"`
	DriveURL    string `json:"driveUrl,omitempty"`
	YouTubeURL  string `json:"youtubeUrl,omitempty"`
	Description string `json:"description,omitempty"`
	IsPublished bool   `json:"isPublished"`
}

// HasURL returns true if a video URL is set.
// INVARIANT: TechVideo fields are not mutated
func (v *TechVideo) HasURL() bool {
	return v.DriveURL != "" || v.YouTubeURL != ""
}

// URL returns the raw watch-style URL, preferring Drive over YouTube.
// INVARIANT: TechVideo fields are not mutated
func (v *TechVideo) URL() string {
	if v.DriveURL != "" {
		return v.DriveURL
	}
	return v.YouTubeURL
}

// CanPublish returns nil if the video may be published.
// PRE: none
// POST: Returns ErrMissingURL when no video URL is set
func (v *TechVideo) CanPublish() error {
	if !v.HasURL() {
		return ErrMissingURL
	}
	return nil
}

// EmbedURL rewrites the raw watch-style URL into an embeddable form by string
// substitution. Unrecognized URLs pass through unchanged.
//
//	https://www.youtube.com/watch?v=ID  -> https://www.youtube.com/embed/ID
//	https://youtu.be/ID                 -> https://www.youtube.com/embed/ID
//	https://drive.google.com/file/d/ID/view -> .../file/d/ID/preview
//
// INVARIANT: TechVideo fields are not mutated
func (v *TechVideo) EmbedURL() string {
	raw := v.URL()
	switch {
	case strings.Contains(raw, "youtube.com/watch?v="):
		embed := strings.Replace(raw, "watch?v=", "embed/", 1)
		// Drop any trailing query parameters after the video ID.
		if i := strings.IndexByte(embed, '&'); i >= 0 {
			embed = embed[:i]
		}
		return embed
	case strings.Contains(raw, "youtu.be/"):
		id := raw[strings.Index(raw, "youtu.be/")+len("youtu.be/"):]
		if q := strings.IndexAny(id, "?&"); q >= 0 {
			id = id[:q]
		}
		return "https://www.youtube.com/embed/" + id
	case strings.Contains(raw, "drive.google.com") && strings.HasSuffix(raw, "/view"):
		return strings.TrimSuffix(raw, "/view") + "/preview"
	}
	return raw
}
