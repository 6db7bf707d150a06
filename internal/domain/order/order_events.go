package order

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

const AggregateTypeOrder = "Order"

const (
	EventTypeOrderPlaced        = "order.placed"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderPlacedEvent fires when a new order is created from a cart
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	Number    string          `json:"number"`
	UserID    string          `json:"userId"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int64           `json:"itemCount"`
}

// NewOrderPlacedEvent creates an order placed event
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		Number:          o.Number,
		UserID:          o.UserID.String(),
		Total:           o.Total,
		ItemCount:       o.ItemCount(),
	}
}

// OrderStatusChangedEvent fires on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	Number     string `json:"number"`
	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
}

// NewOrderStatusChangedEvent creates a status changed event
func NewOrderStatusChangedEvent(o *Order, from Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		Number:          o.Number,
		FromStatus:      string(from),
		ToStatus:        string(o.Status),
	}
}
