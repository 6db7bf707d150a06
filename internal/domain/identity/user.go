package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Role represents the role of a user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a storefront account.
// It is the aggregate root for identity operations. The password hash is
// never serialized: it carries a json:"-" tag and DTO mappings omit it.
type User struct {
	shared.BaseAggregateRoot `bson:",inline"`
	Name                     string                `bson:"name" json:"name"`
	Email                    string                `bson:"email" json:"email"`
	PasswordHash             string                `bson:"password_hash" json:"-"`
	Role                     Role                  `bson:"role" json:"role"`
	Addresses                []valueobject.Address `bson:"addresses" json:"addresses"`
}

// CollectionName returns the backing collection name
func (User) CollectionName() string {
	return "users"
}

// NewUser creates a new customer account. The email is lowercased and
// trimmed; uniqueness is enforced by the persistence layer. The password
// is hashed immediately - the plaintext is never stored.
func NewUser(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		Role:              RoleCustomer,
		Addresses:         make([]valueobject.Address, 0),
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// NewAdminUser creates a new account with the admin role
func NewAdminUser(name, email, password string) (*User, error) {
	user, err := NewUser(name, email, password)
	if err != nil {
		return nil, err
	}
	user.Role = RoleAdmin
	return user, nil
}

// UpdateProfile updates the user's display name
func (u *User) UpdateProfile(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}

	u.Name = name
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ChangeEmail sets a new email address. Uniqueness is enforced on save.
func (u *User) ChangeEmail(email string) error {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return err
	}

	u.Email = normalized
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ChangePassword verifies the current password and stores a new hash.
// The hash is recomputed only here and in SetPassword - profile edits
// never touch it.
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(next)
}

// SetPassword stores a new hash without checking the old password
// (admin reset path).
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// VerifyPassword verifies if the provided password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetRole assigns a role to the user
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be customer or admin")
	}

	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AddAddress appends an address to the user's address book. The first
// address or any address flagged as default becomes the default.
func (u *User) AddAddress(addr valueobject.Address) error {
	if err := addr.Validate(); err != nil {
		return shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	if len(u.Addresses) == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		for i := range u.Addresses {
			u.Addresses[i].IsDefault = false
		}
	}

	u.Addresses = append(u.Addresses, addr)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// RemoveAddress removes the address at the given index
func (u *User) RemoveAddress(index int) error {
	if index < 0 || index >= len(u.Addresses) {
		return shared.ErrNotFound
	}

	removed := u.Addresses[index]
	u.Addresses = append(u.Addresses[:index], u.Addresses[index+1:]...)

	// Keep a default address as long as any address remains
	if removed.IsDefault && len(u.Addresses) > 0 {
		u.Addresses[0].IsDefault = true
	}

	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetDefaultAddress marks the address at the given index as default
func (u *User) SetDefaultAddress(index int) error {
	if index < 0 || index >= len(u.Addresses) {
		return shared.ErrNotFound
	}

	for i := range u.Addresses {
		u.Addresses[i].IsDefault = i == index
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// DefaultAddress returns the default address, if any
func (u *User) DefaultAddress() (valueobject.Address, bool) {
	for _, addr := range u.Addresses {
		if addr.IsDefault {
			return addr, true
		}
	}
	return valueobject.Address{}, false
}

// NormalizeEmail lowercases, trims, and validates an email address
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
