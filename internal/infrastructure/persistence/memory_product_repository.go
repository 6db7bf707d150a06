package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// MemoryProductRepository implements catalog.ProductRepository with a
// mutex-guarded map. It enforces the same slug uniqueness the mongo
// index does.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*catalog.Product
}

var _ catalog.ProductRepository = (*MemoryProductRepository)(nil)

// NewMemoryProductRepository creates an empty product repository
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

// FindByID finds a product by ID
func (r *MemoryProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

// FindBySlug finds a product by slug
func (r *MemoryProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, product := range r.products {
		if product.Slug == slug {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByIDs finds all products with the given IDs
func (r *MemoryProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*catalog.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

// FindAll returns a page of products matching the filter
func (r *MemoryProductRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*catalog.Product
	for _, product := range r.products {
		if filter.Search != "" && !strings.Contains(strings.ToLower(product.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if tag, ok := filter.Filters["tag"].(string); ok && tag != "" && !product.HasTag(tag) {
			continue
		}
		if inStock, ok := filter.Filters["in_stock"].(bool); ok && product.InStock() != inStock {
			continue
		}
		if minPrice, ok := filter.Filters["min_price"].(decimal.Decimal); ok && product.Price.LessThan(minPrice) {
			continue
		}
		if maxPrice, ok := filter.Filters["max_price"].(decimal.Decimal); ok && product.Price.GreaterThan(maxPrice) {
			continue
		}
		matched = append(matched, product)
	}

	sortProducts(matched, filter)
	total := int64(len(matched))
	page := shared.NewPaginated(paginate(matched, filter), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save stores a product, rejecting slug collisions
func (r *MemoryProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.products {
		if id != product.ID && existing.Slug == product.Slug {
			return shared.ErrAlreadyExists
		}
	}
	r.products[product.ID] = product
	return nil
}

// Delete removes a product
func (r *MemoryProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// Count returns the total number of products
func (r *MemoryProductRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// ExistsBySlug reports whether a product with the slug exists
func (r *MemoryProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, product := range r.products {
		if product.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func sortProducts(products []*catalog.Product, filter shared.Filter) {
	asc := filter.OrderDir == "asc"
	sort.SliceStable(products, func(i, j int) bool {
		var less bool
		switch filter.OrderBy {
		case "title":
			less = products[i].Title < products[j].Title
		case "price":
			less = products[i].Price.LessThan(products[j].Price)
		default:
			less = products[i].CreatedAt.Before(products[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})
}

// paginate slices a sorted result set for the filter's page
func paginate[T any](items []T, filter shared.Filter) []T {
	offset := filter.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := offset + filter.PageSize
	if filter.PageSize <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
