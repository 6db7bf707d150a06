package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Status represents the status of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCanceled  Status = "canceled"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions are externally driven (fulfillment and payment updates);
// delivered and canceled are terminal.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCanceled
	case StatusConfirmed:
		return target == StatusShipped || target == StatusCanceled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCanceled:
		return false
	}
	return false
}

// Item is a line item snapshot captured from the cart at checkout.
// The unit price is the price at add-to-cart time, not the current
// catalog price.
type Item struct {
	ProductID    uuid.UUID               `bson:"product_id" json:"productId"`
	ProductTitle string                  `bson:"product_title" json:"productTitle"`
	ProductSlug  string                  `bson:"product_slug" json:"productSlug"`
	Variant      *catalog.ProductVariant `bson:"variant,omitempty" json:"variant,omitempty"`
	Quantity     int64                   `bson:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal         `bson:"unit_price" json:"price"`
	Amount       decimal.Decimal         `bson:"amount" json:"amount"`
}

// NewItem creates a validated order line item
func NewItem(productID uuid.UUID, title, slug string, variant *catalog.ProductVariant, quantity int64, unitPrice decimal.Decimal) (Item, error) {
	if productID == uuid.Nil {
		return Item{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return Item{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return Item{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return Item{
		ProductID:    productID,
		ProductTitle: title,
		ProductSlug:  slug,
		Variant:      variant,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Amount:       unitPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// Order represents a placed order aggregate root. It is created atomically
// from a cart snapshot at checkout; later status transitions come from
// fulfillment and payment callbacks.
type Order struct {
	shared.BaseAggregateRoot `bson:",inline"`
	Number                   string              `bson:"number"`
	UserID                   uuid.UUID           `bson:"user_id"`
	Items                    []Item              `bson:"items"`
	Total                    decimal.Decimal     `bson:"total"`
	Currency                 string              `bson:"currency"`
	Status                   Status              `bson:"status"`
	ShippingAddress          valueobject.Address `bson:"shipping_address"`
	TrackingNumber           string              `bson:"tracking_number,omitempty"`
	PaymentIntentID          string              `bson:"payment_intent_id,omitempty"`
	ConfirmedAt              *time.Time          `bson:"confirmed_at,omitempty"`
	ShippedAt                *time.Time          `bson:"shipped_at,omitempty"`
	DeliveredAt              *time.Time          `bson:"delivered_at,omitempty"`
	CanceledAt               *time.Time          `bson:"canceled_at,omitempty"`
	CancelReason             string              `bson:"cancel_reason,omitempty"`
}

// CollectionName returns the backing collection name
func (Order) CollectionName() string {
	return "orders"
}

// New creates a pending order from a non-empty cart snapshot and a complete
// shipping address. The total is computed as the sum of unit price times
// quantity across all items.
func New(userID uuid.UUID, items []Item, shippingAddress valueobject.Address) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("Cart is empty", "items")
	}
	if missing := shippingAddress.MissingFields(); len(missing) > 0 {
		fields := make([]string, len(missing))
		for i, f := range missing {
			fields[i] = "shippingAddress." + f
		}
		return nil, shared.NewValidationError("", fields...)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             items,
		Total:             total,
		Currency:          string(valueobject.DefaultCurrency),
		Status:            StatusPending,
		ShippingAddress:   shippingAddress,
	}
	o.Number = generateNumber(o.ID, o.CreatedAt)

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return o, nil
}

// Confirm marks the order as confirmed, optionally recording the payment
// intent reference supplied by the payment callback.
func (o *Order) Confirm(paymentIntentID string) error {
	if err := o.transition(StatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	o.ConfirmedAt = &now
	if paymentIntentID != "" {
		o.PaymentIntentID = paymentIntentID
	}
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, StatusPending))
	return nil
}

// Ship marks the order as shipped with an optional tracking number
func (o *Order) Ship(trackingNumber string) error {
	if err := o.transition(StatusShipped); err != nil {
		return err
	}
	now := time.Now()
	o.ShippedAt = &now
	if trackingNumber != "" {
		o.TrackingNumber = trackingNumber
	}
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, StatusConfirmed))
	return nil
}

// Deliver marks the order as delivered
func (o *Order) Deliver() error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, StatusShipped))
	return nil
}

// Cancel cancels the order. Only pending and confirmed orders can be
// canceled.
func (o *Order) Cancel(reason string) error {
	previous := o.Status
	if err := o.transition(StatusCanceled); err != nil {
		return err
	}
	now := time.Now()
	o.CanceledAt = &now
	o.CancelReason = reason
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
	return nil
}

// SetTracking records a tracking number without changing status
func (o *Order) SetTracking(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number cannot be empty")
	}

	o.TrackingNumber = trackingNumber
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// AttachPaymentIntent records the payment intent reference without
// changing status
func (o *Order) AttachPaymentIntent(paymentIntentID string) error {
	paymentIntentID = strings.TrimSpace(paymentIntentID)
	if paymentIntentID == "" {
		return shared.NewDomainError("INVALID_PAYMENT_REF", "Payment intent reference cannot be empty")
	}

	o.PaymentIntentID = paymentIntentID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// IsTerminal reports whether the order reached a terminal status
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCanceled
}

// ItemCount returns the total number of units across all line items
func (o *Order) ItemCount() int64 {
	var count int64
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// TotalMoney returns the order total as a Money value object
func (o *Order) TotalMoney() valueobject.Money {
	money, err := valueobject.NewMoney(o.Total, valueobject.Currency(o.Currency))
	if err != nil {
		return valueobject.NewMoneyUSD(o.Total)
	}
	return money
}

func (o *Order) transition(target Status) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// generateNumber derives a short human-readable order number from the
// creation time and the first ID bytes.
func generateNumber(id uuid.UUID, createdAt time.Time) string {
	return fmt.Sprintf("ORD-%s-%X", createdAt.Format("20060102"), id[:4])
}
