package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderActivityLogger records order lifecycle events in the application
// log. It is the audit trail for order activity until a dedicated
// fulfillment integration consumes these events.
type OrderActivityLogger struct {
	logger *zap.Logger
}

// NewOrderActivityLogger creates a logging event handler
func NewOrderActivityLogger(logger *zap.Logger) *OrderActivityLogger {
	return &OrderActivityLogger{logger: logger}
}

// Handle logs the event
func (h *OrderActivityLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		h.logger.Info("order placed",
			zap.String("order_number", e.Number),
			zap.String("user_id", e.UserID),
			zap.String("total", e.Total.String()),
			zap.Int64("item_count", e.ItemCount),
		)
	case *order.OrderStatusChangedEvent:
		h.logger.Info("order status changed",
			zap.String("order_number", e.Number),
			zap.String("from", e.FromStatus),
			zap.String("to", e.ToStatus),
		)
	}
	return nil
}

// EventTypes returns the order events this handler consumes
func (h *OrderActivityLogger) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced, order.EventTypeOrderStatusChanged}
}

var _ shared.EventHandler = (*OrderActivityLogger)(nil)
