package access

import (
	"context"

	"mainstage/internal/domain/access"
)

// Store defines the persistence interface for login identities.
type Store interface {
	Create(ctx context.Context, identity access.Identity) error
	Get(ctx context.Context, id string) (access.Identity, error)
	List(ctx context.Context) ([]access.Identity, error)
	Count(ctx context.Context) (int, error)
}
