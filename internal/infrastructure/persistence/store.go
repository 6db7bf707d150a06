package persistence

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Store is a connected document store exposing the repositories
type Store interface {
	Products() catalog.ProductRepository
	Users() identity.UserRepository
	Orders() order.OrderRepository
	Carts() cart.Store
	Ping(ctx context.Context) error
	Backend() string
	Close(ctx context.Context) error
}

// DialFunc establishes a connection to a backend
type DialFunc func(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error)

type connectAttempt struct {
	done  chan struct{}
	store Store
	err   error
}

// Selector picks the store backend from configuration and hands out a
// single shared connection. Connect is idempotent: concurrent callers
// share one in-flight dial, and a failed dial clears the cached attempt
// so the next call retries.
type Selector struct {
	cfg    config.StoreConfig
	logger *zap.Logger
	dial   DialFunc

	mu      sync.Mutex
	store   Store
	attempt *connectAttempt
}

// NewSelector creates a selector for the configured backend
func NewSelector(cfg config.StoreConfig, logger *zap.Logger) *Selector {
	return &Selector{
		cfg:    cfg,
		logger: logger,
		dial:   defaultDial,
	}
}

// NewSelectorWithDial creates a selector with a custom dial function
func NewSelectorWithDial(cfg config.StoreConfig, logger *zap.Logger, dial DialFunc) *Selector {
	return &Selector{
		cfg:    cfg,
		logger: logger,
		dial:   dial,
	}
}

// Connect returns the connected store, dialing the backend on first use.
// Repeated calls return the same store without dialing again.
func (s *Selector) Connect(ctx context.Context) (Store, error) {
	s.mu.Lock()
	if s.store != nil {
		store := s.store
		s.mu.Unlock()
		return store, nil
	}

	if s.attempt == nil {
		attempt := &connectAttempt{done: make(chan struct{})}
		s.attempt = attempt
		go s.run(attempt)
	}
	attempt := s.attempt
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-attempt.done:
	}

	if attempt.err != nil {
		return nil, attempt.err
	}
	return attempt.store, nil
}

// run performs the dial and resolves the shared attempt. On failure the
// attempt is removed so a later Connect starts fresh.
func (s *Selector) run(attempt *connectAttempt) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ConnectTimeout)
	defer cancel()

	store, err := s.dial(ctx, s.cfg, s.logger)

	s.mu.Lock()
	if err != nil {
		attempt.err = err
		s.attempt = nil
		s.logger.Error("store connection failed",
			zap.String("backend", s.cfg.Backend),
			zap.Error(err))
	} else {
		attempt.store = store
		s.store = store
		s.logger.Info("store connected", zap.String("backend", store.Backend()))
	}
	s.mu.Unlock()

	close(attempt.done)
}

// Disconnect closes the current store, if any, and resets the selector
// so a later Connect dials again.
func (s *Selector) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	store := s.store
	s.store = nil
	s.attempt = nil
	s.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.Close(ctx)
}

// Connected reports whether a store is currently cached
func (s *Selector) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store != nil
}

func defaultDial(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case config.StoreBackendMongo:
		return NewMongoStore(ctx, cfg, logger)
	case config.StoreBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
