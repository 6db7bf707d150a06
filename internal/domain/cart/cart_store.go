package cart

import (
	"context"

	"github.com/google/uuid"
)

// Store holds one cart per user. Get returns an empty cart, never
// shared.ErrNotFound, when the user has no cart yet.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
