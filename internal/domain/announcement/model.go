package announcement

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
)

// Domain errors
var (
	ErrEmptyTitle     = errors.New("announcement title cannot be empty")
	ErrEmptyContent   = errors.New("announcement content cannot be empty")
	ErrTitleTooLong   = errors.New("announcement title cannot exceed 200 characters")
	ErrContentTooLong = errors.New("announcement content cannot exceed 10000 characters")
	ErrNoTargetTeams  = errors.New("announcement must target at least one team")
)

// Announcement is a single entry in a team's announcement list.
// The same logical announcement fanned out to N teams carries the same ID and
// Timestamp on every team but is a separate physical entry per team, so
// deleting one team's copy never touches the others.
// Content supports Markdown formatting.
type Announcement struct {
	ID          string
	Title       string
	Content     string // Markdown content
	Timestamp   int64  // epoch milliseconds
	TargetTeams []string
}

// NewID derives an announcement ID from its creation time.
// IDs only need to be unique within one team's announcement list; the
// epoch-millisecond stamp of a single authoring action satisfies that and
// keeps edited copies matchable across teams.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// Validate checks if the Announcement has valid data.
// PRE: Announcement struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Announcement) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if len(a.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(a.Content) == "" {
		return ErrEmptyContent
	}
	if len(a.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// CreatedAt converts the epoch-millisecond timestamp to a time.Time.
// INVARIANT: Announcement fields are not mutated
func (a *Announcement) CreatedAt() time.Time {
	return time.UnixMilli(a.Timestamp).UTC()
}

// RemoveByID returns the list with every entry carrying the given ID removed.
// PRE: id is non-empty
// POST: Returned list preserves the order of the remaining entries
func RemoveByID(list []Announcement, id string) []Announcement {
	out := make([]Announcement, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
