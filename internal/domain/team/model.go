package team

import (
	"errors"
	"strings"

	"mainstage/internal/domain/announcement"
	"mainstage/internal/domain/schedule"
	"mainstage/internal/domain/techvideo"
)

// Domain errors
var (
	ErrEmptyID          = errors.New("team ID cannot be empty")
	ErrEmptyDisplayName = errors.New("team display name cannot be empty")
	ErrNotFound         = errors.New("team record not found")
	ErrVersionConflict  = errors.New("team record was modified concurrently")
)

// Liaison is a single staff contact assigned to a team.
type Liaison struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// TechInfo holds the fixed tech-logistics fields shown on the information tab.
type TechInfo struct {
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

// VenueInfo holds the fixed venue fields shown on the information tab.
type VenueInfo struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	LoadInDoor   string `json:"loadInDoor"`
	ParkingNotes string `json:"parkingNotes"`
}

// HotelInfo holds the fixed hotel fields shown on the information tab.
type HotelInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// Information bundles a team's logistics info block.
type Information struct {
	Liaisons []Liaison `json:"liaisons"`
	Tech     TechInfo  `json:"tech"`
	Venue    VenueInfo `json:"venue"`
	Hotel    HotelInfo `json:"hotel"`
}

// Location is a nearby point of interest (food, pharmacy, and so on).
type Location struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Address  string `json:"address"`
	Distance string `json:"distance"`
}

// Record is the full per-team data bundle. One record exists per team, created
// once at seeding and never deleted during normal operation. Substructures are
// replaced wholesale by the engines; Version supports optimistic concurrency
// at the store boundary.
type Record struct {
	ID              string
	DisplayName     string
	Announcements   []announcement.Announcement
	Information     Information
	TechVideo       techvideo.TechVideo
	Schedule        schedule.Schedule
	NearbyLocations []Location
	Version         int64
}

// Validate checks if the Record has valid identity data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return ErrEmptyDisplayName
	}
	return nil
}

// Normalize defaults every nested collection to empty rather than nil so a
// partially initialized record never breaks readers or writers.
// POST: No collection field is nil
func (r *Record) Normalize() {
	if r.Announcements == nil {
		r.Announcements = []announcement.Announcement{}
	}
	if r.Information.Liaisons == nil {
		r.Information.Liaisons = []Liaison{}
	}
	if r.NearbyLocations == nil {
		r.NearbyLocations = []Location{}
	}
	r.Schedule.Normalize()
}
