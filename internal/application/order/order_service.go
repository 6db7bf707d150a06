package order

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderService handles checkout and order lifecycle operations
type OrderService struct {
	orderRepo      order.OrderRepository
	cartStore      cart.Store
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.OrderRepository,
	cartStore cart.Store,
	userRepo identity.UserRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:      orderRepo,
		cartStore:      cartStore,
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// PlaceOrder creates a pending order from the user's cart. The cart is
// cleared only after the order has been saved, so a failed checkout
// leaves the cart intact. Stock is not decremented here; fulfillment
// reconciles inventory separately.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.NewValidationError("Cart is empty", "items")
	}

	var shipping valueobject.Address
	if req.ShippingAddress != nil {
		shipping = req.ShippingAddress.toAddress()
	} else if addr, ok := user.DefaultAddress(); ok {
		shipping = addr
	}

	items := make([]order.Item, 0, len(c.Lines))
	for _, line := range c.Lines {
		var variant *catalog.ProductVariant
		if line.VariantName != "" || line.VariantValue != "" {
			variant = &catalog.ProductVariant{Name: line.VariantName, Value: line.VariantValue}
		}
		item, err := order.NewItem(line.ProductID, line.ProductTitle, line.ProductSlug, variant, line.Quantity, line.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	o, err := order.New(userID, items, shipping)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	// The order is placed at this point. A cart left behind is a
	// cosmetic leftover, not a failed checkout.
	if err := s.cartStore.Delete(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("user_id", userID.String()),
			zap.String("order_number", o.Number),
			zap.Error(err),
		)
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetForUser retrieves an order, checking it belongs to the user
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ListForUser retrieves a user's orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderListResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	page, err := s.orderRepo.FindByUserID(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListResponses(page.Items), page.Total, nil
}

// List retrieves all orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	page, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListResponses(page.Items), page.Total, nil
}

// UpdateStatus applies a status transition driven by fulfillment or
// payment updates
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch order.Status(req.Status) {
	case order.StatusConfirmed:
		err = o.Confirm(req.PaymentIntent)
	case order.StatusShipped:
		err = o.Ship(req.TrackingNumber)
	case order.StatusDelivered:
		err = o.Deliver()
	case order.StatusCanceled:
		err = o.Cancel(req.Reason)
	default:
		err = shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels an order on behalf of its owner
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID, req CancelRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrNotFound
	}

	if err := o.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// SetTracking records a tracking number on an order
func (s *OrderService) SetTracking(ctx context.Context, orderID uuid.UUID, req SetTrackingRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.SetTracking(req.TrackingNumber); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

func (s *OrderService) toDomainFilter(filter OrderListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}

// publishEvents drains and publishes the aggregate's pending events.
// Publishing is best effort; a failed publish does not fail the request.
func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}
