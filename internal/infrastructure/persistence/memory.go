package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// MemoryStore is the in-process document store used for development and
// tests. Data does not survive a restart.
type MemoryStore struct {
	products *MemoryProductRepository
	users    *MemoryUserRepository
	orders   *MemoryOrderRepository
	carts    *MemoryCartStore
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: NewMemoryProductRepository(),
		users:    NewMemoryUserRepository(),
		orders:   NewMemoryOrderRepository(),
		carts:    NewMemoryCartStore(),
	}
}

// Products returns the product repository
func (s *MemoryStore) Products() catalog.ProductRepository {
	return s.products
}

// Users returns the user repository
func (s *MemoryStore) Users() identity.UserRepository {
	return s.users
}

// Orders returns the order repository
func (s *MemoryStore) Orders() order.OrderRepository {
	return s.orders
}

// Carts returns the cart store
func (s *MemoryStore) Carts() cart.Store {
	return s.carts
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Backend returns the backend name
func (s *MemoryStore) Backend() string {
	return config.StoreBackendMemory
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close(context.Context) error {
	return nil
}
