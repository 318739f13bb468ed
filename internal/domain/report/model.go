package report

import (
	"errors"
	"strings"
	"time"
)

// MaxDescriptionLength caps the free-text description.
const MaxDescriptionLength = 5000

// Domain errors
var (
	ErrEmptyDescription   = errors.New("report description cannot be empty")
	ErrDescriptionTooLong = errors.New("report description cannot exceed 5000 characters")
)

// Report is an anonymous incident report filed from a team client. Reports are
// append-only from team clients and read-only from the admin view; TeamID
// records which portal filed it, not who.
type Report struct {
	ID          string
	TeamID      string
	Description string
	Timestamp   time.Time
}

// Validate checks if the Report has valid data.
// PRE: Report struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Report) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if len(r.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
