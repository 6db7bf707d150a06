package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// MemoryUserRepository implements identity.UserRepository with a
// mutex-guarded map, enforcing email uniqueness.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*identity.User
}

var _ identity.UserRepository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository creates an empty user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*identity.User)}
}

// FindByID finds a user by ID
func (r *MemoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

// FindByEmail finds a user by normalized email
func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll returns a page of users matching the filter
func (r *MemoryUserRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.User], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*identity.User
	for _, user := range r.users {
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(user.Name), needle) &&
				!strings.Contains(user.Email, needle) {
				continue
			}
		}
		if role, ok := filter.Filters["role"].(string); ok && role != "" && string(user.Role) != role {
			continue
		}
		matched = append(matched, user)
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

// Save stores a user, rejecting email collisions
func (r *MemoryUserRepository) Save(ctx context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return shared.ErrAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

// Delete removes a user
func (r *MemoryUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// Count returns the total number of users
func (r *MemoryUserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// ExistsByEmail reports whether a user with the email exists
func (r *MemoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}
