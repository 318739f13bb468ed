package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"mainstage/internal/domain/access"
)

// IdentityStoreForLogin defines the store interface needed by Login.
type IdentityStoreForLogin interface {
	List(ctx context.Context) ([]access.Identity, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Passcode string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	IdentityID string
	Role       string
	TeamID     string
	Label      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	IdentityStore IdentityStoreForLogin
}

// ErrInvalidPasscode is returned for any passcode that matches no identity.
var ErrInvalidPasscode = errors.New("invalid passcode")

// ExecuteLogin resolves a shared passcode to an identity. There are no
// usernames: the passcode alone selects the identity, so every hash is
// checked until one matches. The identity count is fixed and tiny (eight
// teams plus admin and viewer), so the linear bcrypt scan is fine.
// PRE: Passcode is non-empty
// POST: Returns the matching identity's session fields, or ErrInvalidPasscode
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Passcode == "" {
		return LoginResult{}, ErrInvalidPasscode
	}

	identities, err := deps.IdentityStore.List(ctx)
	if err != nil {
		return LoginResult{}, err
	}

	for _, identity := range identities {
		if identity.CheckPasscode(input.Passcode) == nil {
			slog.Info("auth_event", "event", "login_success",
				"identity_id", identity.ID, "role", identity.Role)
			return LoginResult{
				IdentityID: identity.ID,
				Role:       identity.Role,
				TeamID:     identity.TeamID,
				Label:      identity.Label,
			}, nil
		}
	}

	slog.Info("auth_event", "event", "login_failed", "reason", "no_matching_passcode")
	return LoginResult{}, ErrInvalidPasscode
}
