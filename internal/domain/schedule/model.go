package schedule

import "errors"

// Show-order bounds: eight teams, one slot each.
const (
	MinShowOrder = 1
	MaxShowOrder = 8
)

// Section keys addressable by per-section overrides.
const (
	SectionFriday             = "friday"
	SectionSaturdayTech       = "saturdayTech"
	SectionSaturdayPreShow    = "saturdayPreShow"
	SectionSaturdayShow       = "saturdayShow"
	SectionPostShowPlacing    = "saturdayPostShowPlacing"
	SectionPostShowNonPlacing = "saturdayPostShowNonPlacing"
)

// ValidSections contains all addressable section keys.
var ValidSections = []string{
	SectionFriday,
	SectionSaturdayTech,
	SectionSaturdayPreShow,
	SectionSaturdayShow,
	SectionPostShowPlacing,
	SectionPostShowNonPlacing,
}

// Domain errors
var (
	ErrInvalidShowOrder = errors.New("show order must be between 1 and 8")
	ErrMissingShowOrder = errors.New("schedule cannot be published before a show order is assigned")
	ErrUnknownSection   = errors.New("unknown schedule section")
)

// Event is a single line in a schedule section. All fields are free text;
// display order is insertion order, no numeric ordering is imposed.
type Event struct {
	Time     string `json:"time"`
	Activity string `json:"event"`
	Location string `json:"location"`
}

// PostShow splits Saturday's post-show timeline by placement outcome.
type PostShow struct {
	Placing    []Event `json:"placing"`
	NonPlacing []Event `json:"nonPlacing"`
}

// Schedule is a team's full event weekend timeline. ShowOrder 0 means
// unassigned. IsPublished gates team-side visibility only; the admin view
// always sees the stored sections.
type Schedule struct {
	ShowOrder        int      `json:"showOrder"`
	IsPublished      bool     `json:"isPublished"`
	Friday           []Event  `json:"friday"`
	SaturdayTech     []Event  `json:"saturdayTech"`
	SaturdayPreShow  []Event  `json:"saturdayPreShow"`
	SaturdayShow     []Event  `json:"saturdayShow"`
	SaturdayPostShow PostShow `json:"saturdayPostShow"`
}

// HasOrder returns true if a show order has been assigned.
// INVARIANT: Schedule fields are not mutated
func (s *Schedule) HasOrder() bool {
	return s.ShowOrder >= MinShowOrder && s.ShowOrder <= MaxShowOrder
}

// CanPublish returns nil if the schedule may be published.
// POST: Returns ErrMissingShowOrder when no show order is assigned
func (s *Schedule) CanPublish() error {
	if !s.HasOrder() {
		return ErrMissingShowOrder
	}
	return nil
}

// Normalize defaults every absent section to an empty slice so a partially
// initialized record can always be written back and rendered safely.
// POST: No section field is nil
func (s *Schedule) Normalize() {
	if s.Friday == nil {
		s.Friday = []Event{}
	}
	if s.SaturdayTech == nil {
		s.SaturdayTech = []Event{}
	}
	if s.SaturdayPreShow == nil {
		s.SaturdayPreShow = []Event{}
	}
	if s.SaturdayShow == nil {
		s.SaturdayShow = []Event{}
	}
	if s.SaturdayPostShow.Placing == nil {
		s.SaturdayPostShow.Placing = []Event{}
	}
	if s.SaturdayPostShow.NonPlacing == nil {
		s.SaturdayPostShow.NonPlacing = []Event{}
	}
}

// ReplaceSection overwrites exactly one named section, leaving the others and
// the ShowOrder/IsPublished flags untouched.
// PRE: key is one of ValidSections
// POST: The named section equals events; returns ErrUnknownSection otherwise
func (s *Schedule) ReplaceSection(key string, events []Event) error {
	if events == nil {
		events = []Event{}
	}
	switch key {
	case SectionFriday:
		s.Friday = events
	case SectionSaturdayTech:
		s.SaturdayTech = events
	case SectionSaturdayPreShow:
		s.SaturdayPreShow = events
	case SectionSaturdayShow:
		s.SaturdayShow = events
	case SectionPostShowPlacing:
		s.SaturdayPostShow.Placing = events
	case SectionPostShowNonPlacing:
		s.SaturdayPostShow.NonPlacing = events
	default:
		return ErrUnknownSection
	}
	return nil
}
