package access

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role constants
const (
	RoleAdmin  = "admin"
	RoleTeam   = "team"
	RoleViewer = "viewer"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleTeam, RoleViewer}

// Domain errors
var (
	ErrNotFound         = errors.New("identity not found")
	ErrEmptyPasscode    = errors.New("passcode cannot be empty")
	ErrPasscodeTooShort = errors.New("passcode must be at least 6 characters")
	ErrWrongPasscode    = errors.New("incorrect passcode")
	ErrInvalidRole      = errors.New("role must be one of: admin, team, viewer")
	ErrMissingTeamID    = errors.New("team identities require a team ID")
)

// Identity maps one static shared passcode to a portal identity. Team
// identities are scoped to a single team record; admin may address any team;
// viewer reads any team view but writes nothing. A deliberately minimal
// design for a low-stakes, short-lived event: no rotation, no expiry.
type Identity struct {
	ID           string
	Role         string
	TeamID       string // set only for RoleTeam
	Label        string // display name shown after login
	PasscodeHash string
	CreatedAt    time.Time
}

// Validate checks if the Identity has valid data.
// PRE: Identity struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Identity) Validate() error {
	if !isValidRole(i.Role) {
		return ErrInvalidRole
	}
	if i.Role == RoleTeam && strings.TrimSpace(i.TeamID) == "" {
		return ErrMissingTeamID
	}
	return nil
}

// SetPasscode hashes and stores a passcode using bcrypt with cost 10.
// PRE: plaintext is non-empty and >= 6 characters
// POST: PasscodeHash is set to bcrypt hash
func (i *Identity) SetPasscode(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPasscode
	}
	if len(plaintext) < 6 {
		return ErrPasscodeTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 10)
	if err != nil {
		return err
	}
	i.PasscodeHash = string(hash)
	return nil
}

// CheckPasscode verifies a plaintext passcode against the stored hash.
// PRE: PasscodeHash is set
// INVARIANT: Identity fields are not mutated
func (i *Identity) CheckPasscode(plaintext string) error {
	if i.PasscodeHash == "" {
		return ErrWrongPasscode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(i.PasscodeHash), []byte(plaintext)); err != nil {
		return ErrWrongPasscode
	}
	return nil
}

// CanReadTeam returns true if this identity may read the given team's view.
// INVARIANT: Identity fields are not mutated
func (i *Identity) CanReadTeam(teamID string) bool {
	switch i.Role {
	case RoleAdmin, RoleViewer:
		return true
	case RoleTeam:
		return i.TeamID == teamID
	}
	return false
}

// CanWriteTeam returns true if this identity may write the given team's path.
// Team identities may only append reports to their own path; admin may write
// any team path; viewer writes nothing.
// INVARIANT: Identity fields are not mutated
func (i *Identity) CanWriteTeam(teamID string) bool {
	switch i.Role {
	case RoleAdmin:
		return true
	case RoleTeam:
		return i.TeamID == teamID
	}
	return false
}

// IsAdmin returns true if the identity has the admin role.
// INVARIANT: Identity fields are not mutated
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
