package persistence

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/cart"
)

// MemoryCartStore holds carts in a mutex-guarded map keyed by user
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*cart.Cart
}

var _ cart.Store = (*MemoryCartStore)(nil)

// NewMemoryCartStore creates an empty cart store
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[uuid.UUID]*cart.Cart)}
}

// Get returns the user's cart, or a fresh empty cart when none is stored
func (s *MemoryCartStore) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[userID]
	if !ok {
		return cart.New(userID), nil
	}
	return c, nil
}

// Save stores the user's cart
func (s *MemoryCartStore) Save(ctx context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.UserID] = c
	return nil
}

// Delete removes the user's cart. Deleting an absent cart is a no-op.
func (s *MemoryCartStore) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
