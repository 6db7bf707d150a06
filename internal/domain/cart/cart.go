package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Line is a cart line item. UnitPrice is snapshotted when the item is
// added so a later catalog price change does not silently reprice the
// cart; re-adding the same product refreshes the snapshot.
type Line struct {
	ProductID    uuid.UUID       `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	ProductSlug  string          `json:"productSlug"`
	VariantName  string          `json:"variantName,omitempty"`
	VariantValue string          `json:"variantValue,omitempty"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"price"`
}

// Amount returns quantity times unit price for the line
func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// matches reports whether the line refers to the same product and variant
func (l Line) matches(productID uuid.UUID, variantName, variantValue string) bool {
	return l.ProductID == productID && l.VariantName == variantName && l.VariantValue == variantValue
}

// Cart is a server-held shopping cart keyed by the owning user. It is a
// plain value persisted as a single document per user, not an aggregate;
// checkout consumes the whole cart atomically.
type Cart struct {
	UserID    uuid.UUID `json:"userId"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates an empty cart for a user
func New(userID uuid.UUID) *Cart {
	return &Cart{
		UserID:    userID,
		Lines:     []Line{},
		UpdatedAt: time.Now(),
	}
}

// AddLine adds quantity of a product to the cart. If a line for the same
// product and variant already exists its quantity is increased and its
// price snapshot refreshed.
func (c *Cart) AddLine(line Line) error {
	if line.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if line.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if line.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	for i := range c.Lines {
		if c.Lines[i].matches(line.ProductID, line.VariantName, line.VariantValue) {
			c.Lines[i].Quantity += line.Quantity
			c.Lines[i].UnitPrice = line.UnitPrice
			c.Lines[i].ProductTitle = line.ProductTitle
			c.Lines[i].ProductSlug = line.ProductSlug
			c.touch()
			return nil
		}
	}

	c.Lines = append(c.Lines, line)
	c.touch()
	return nil
}

// SetQuantity sets the quantity of an existing line. A quantity of zero
// removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, variantName, variantValue string, quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quantity == 0 {
		return c.RemoveLine(productID, variantName, variantValue)
	}

	for i := range c.Lines {
		if c.Lines[i].matches(productID, variantName, variantValue) {
			c.Lines[i].Quantity = quantity
			c.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveLine removes the line for a product and variant
func (c *Cart) RemoveLine(productID uuid.UUID, variantName, variantValue string) error {
	for i := range c.Lines {
		if c.Lines[i].matches(productID, variantName, variantValue) {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear removes all lines from the cart
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.touch()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the total number of units across all lines
func (c *Cart) ItemCount() int64 {
	var count int64
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// Total returns the cart total as the sum of line amounts
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Amount())
	}
	return total
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
