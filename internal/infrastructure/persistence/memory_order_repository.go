package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// MemoryOrderRepository implements order.OrderRepository with a
// mutex-guarded map
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*order.Order
}

var _ order.OrderRepository = (*MemoryOrderRepository)(nil)

// NewMemoryOrderRepository creates an empty order repository
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[uuid.UUID]*order.Order)}
}

// FindByID finds an order by ID
func (r *MemoryOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

// FindByNumber finds an order by its number
func (r *MemoryOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.Number == number {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByUserID returns a page of the user's orders
func (r *MemoryOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	return r.findPage(filter, func(o *order.Order) bool {
		return o.UserID == userID
	})
}

// FindAll returns a page of orders matching the filter
func (r *MemoryOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	return r.findPage(filter, func(*order.Order) bool { return true })
}

// Save stores an order
func (r *MemoryOrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.orders {
		if id != o.ID && existing.Number == o.Number {
			return shared.ErrAlreadyExists
		}
	}
	r.orders[o.ID] = o
	return nil
}

// Delete removes an order
func (r *MemoryOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

// Count returns the total number of orders
func (r *MemoryOrderRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

func (r *MemoryOrderRepository) findPage(filter shared.Filter, match func(*order.Order) bool) (*shared.Paginated[*order.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*order.Order
	for _, o := range r.orders {
		if !match(o) {
			continue
		}
		if status, ok := filter.Filters["status"].(string); ok && status != "" && string(o.Status) != status {
			continue
		}
		matched = append(matched, o)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if filter.OrderDir == "asc" {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[j].CreatedAt.Before(matched[i].CreatedAt)
	})

	total := int64(len(matched))
	page := shared.NewPaginated(paginate(matched, filter), total, filter.Page, filter.PageSize)
	return &page, nil
}
