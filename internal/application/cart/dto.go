package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID    uuid.UUID `json:"productId" binding:"required"`
	VariantName  string    `json:"variantName"`
	VariantValue string    `json:"variantValue"`
	Quantity     int64     `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a quantity change for a cart line
type UpdateItemRequest struct {
	ProductID    uuid.UUID `json:"productId" binding:"required"`
	VariantName  string    `json:"variantName"`
	VariantValue string    `json:"variantValue"`
	Quantity     int64     `json:"quantity" binding:"min=0"`
}

// CartLineResponse represents a cart line in API responses
type CartLineResponse struct {
	ProductID    uuid.UUID       `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	ProductSlug  string          `json:"productSlug"`
	VariantName  string          `json:"variantName,omitempty"`
	VariantValue string          `json:"variantValue,omitempty"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"price"`
	Amount       decimal.Decimal `json:"amount"`
}

// CartResponse represents the cart in API responses
type CartResponse struct {
	UserID    uuid.UUID          `json:"userId"`
	Lines     []CartLineResponse `json:"lines"`
	ItemCount int64              `json:"itemCount"`
	Total     decimal.Decimal    `json:"total"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ToCartResponse converts a domain Cart to CartResponse
func ToCartResponse(c *cart.Cart) CartResponse {
	lines := make([]CartLineResponse, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = CartLineResponse{
			ProductID:    l.ProductID,
			ProductTitle: l.ProductTitle,
			ProductSlug:  l.ProductSlug,
			VariantName:  l.VariantName,
			VariantValue: l.VariantValue,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Amount:       l.Amount(),
		}
	}

	return CartResponse{
		UserID:    c.UserID,
		Lines:     lines,
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
		UpdatedAt: c.UpdatedAt,
	}
}
