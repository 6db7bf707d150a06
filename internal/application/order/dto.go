package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ShippingAddressPayload carries the shipping address at checkout
type ShippingAddressPayload struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zipCode"`
	Country string `json:"country"`
}

// CheckoutRequest represents a request to place an order from the cart.
// When ShippingAddress is nil the user's default address is used.
type CheckoutRequest struct {
	ShippingAddress *ShippingAddressPayload `json:"shippingAddress"`
}

// UpdateStatusRequest represents a status transition request
type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required,oneof=confirmed shipped delivered canceled"`
	TrackingNumber string `json:"trackingNumber"`
	PaymentIntent  string `json:"paymentIntentId"`
	Reason         string `json:"reason"`
}

// SetTrackingRequest records a tracking number on an order
type SetTrackingRequest struct {
	TrackingNumber string `json:"trackingNumber" binding:"required"`
}

// CancelRequest cancels an order
type CancelRequest struct {
	Reason string `json:"reason"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ProductID    uuid.UUID       `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	ProductSlug  string          `json:"productSlug"`
	VariantName  string          `json:"variantName,omitempty"`
	VariantValue string          `json:"variantValue,omitempty"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"price"`
	Amount       decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID               `json:"id"`
	Number          string                  `json:"number"`
	UserID          uuid.UUID               `json:"userId"`
	Items           []OrderItemResponse     `json:"items"`
	Total           decimal.Decimal         `json:"total"`
	Currency        string                  `json:"currency"`
	Status          string                  `json:"status"`
	ShippingAddress ShippingAddressPayload  `json:"shippingAddress"`
	TrackingNumber  string                  `json:"trackingNumber,omitempty"`
	PaymentIntentID string                  `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// OrderListResponse represents a list item for orders
type OrderListResponse struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	ItemCount int64           `json:"itemCount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed shipped delivered canceled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		resp := OrderItemResponse{
			ProductID:    item.ProductID,
			ProductTitle: item.ProductTitle,
			ProductSlug:  item.ProductSlug,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Amount:       item.Amount,
		}
		if item.Variant != nil {
			resp.VariantName = item.Variant.Name
			resp.VariantValue = item.Variant.Value
		}
		items[i] = resp
	}

	return OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		UserID:          o.UserID,
		Items:           items,
		Total:           o.Total,
		Currency:        o.Currency,
		Status:          string(o.Status),
		ShippingAddress: toShippingAddressPayload(o.ShippingAddress),
		TrackingNumber:  o.TrackingNumber,
		PaymentIntentID: o.PaymentIntentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderListResponse converts a domain Order to OrderListResponse
func ToOrderListResponse(o *order.Order) OrderListResponse {
	return OrderListResponse{
		ID:        o.ID,
		Number:    o.Number,
		Total:     o.Total,
		Currency:  o.Currency,
		Status:    string(o.Status),
		ItemCount: o.ItemCount(),
		CreatedAt: o.CreatedAt,
	}
}

// ToOrderListResponses converts a slice of domain Orders
func ToOrderListResponses(orders []*order.Order) []OrderListResponse {
	responses := make([]OrderListResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderListResponse(o)
	}
	return responses
}

func toShippingAddressPayload(a valueobject.Address) ShippingAddressPayload {
	return ShippingAddressPayload{
		Name:    a.Name,
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
	}
}

func (p ShippingAddressPayload) toAddress() valueobject.Address {
	return valueobject.Address{
		Name:    p.Name,
		Street:  p.Street,
		City:    p.City,
		State:   p.State,
		Zip:     p.Zip,
		Country: p.Country,
	}
}
