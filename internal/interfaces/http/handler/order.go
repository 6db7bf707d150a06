package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartapp "github.com/storefront/backend/internal/application/cart"
	orderapp "github.com/storefront/backend/internal/application/order"
)

// OrderHandler handles checkout and order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
	cartService  *cartapp.CartService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService, cartService *cartapp.CartService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		cartService:  cartService,
	}
}

// RegisterRoutes registers order routes on the API group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.PATCH("/:id/status", h.UpdateStatus)
		orders.POST("/:id/tracking", h.SetTracking)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

type checkoutItemPayload struct {
	ProductID    uuid.UUID `json:"productId" binding:"required"`
	VariantName  string    `json:"variantName"`
	VariantValue string    `json:"variantValue"`
	Quantity     int64     `json:"quantity" binding:"required,min=1"`
}

type placeOrderRequest struct {
	Items           []checkoutItemPayload            `json:"items" binding:"omitempty,dive"`
	ShippingAddress *orderapp.ShippingAddressPayload `json:"shippingAddress"`
}

// PlaceOrder creates an order from the caller's cart. An explicit items
// list replaces the cart content before checkout; unit prices are always
// snapshotted from the catalog, never taken from the request.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing or invalid user identity")
		return
	}

	var req placeOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.HandleBindingError(c, err)
			return
		}
	}

	ctx := c.Request.Context()

	if len(req.Items) > 0 {
		if err := h.cartService.Clear(ctx, userID); err != nil {
			h.HandleDomainError(c, err)
			return
		}
		for _, item := range req.Items {
			_, err := h.cartService.AddItem(ctx, userID, cartapp.AddItemRequest{
				ProductID:    item.ProductID,
				VariantName:  item.VariantName,
				VariantValue: item.VariantValue,
				Quantity:     item.Quantity,
			})
			if err != nil {
				h.HandleDomainError(c, err)
				return
			}
		}
	}

	order, err := h.orderService.PlaceOrder(ctx, userID, orderapp.CheckoutRequest{
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID returns a single order. Callers identified via X-User-ID only
// see their own orders; unidentified callers come through the trusted
// admin path.
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if userID, err := getUserID(c); err == nil {
		order, err := h.orderService.GetForUser(c.Request.Context(), userID, orderID)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, order)
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List returns orders, scoped to a user when userId is given
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	var (
		orders []orderapp.OrderListResponse
		total  int64
		err    error
	)
	if userIDStr := c.Query("userId"); userIDStr != "" {
		userID, parseErr := uuid.Parse(userIDStr)
		if parseErr != nil {
			h.BadRequest(c, "Invalid user ID format")
			return
		}
		orders, total, err = h.orderService.ListForUser(c.Request.Context(), userID, filter)
	} else {
		orders, total, err = h.orderService.List(c.Request.Context(), filter)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// UpdateStatus drives an order through its lifecycle
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// SetTracking records a tracking number on an order
func (h *OrderHandler) SetTracking(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.SetTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	order, err := h.orderService.SetTracking(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel cancels the caller's order if it has not shipped yet
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing or invalid user identity")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.HandleBindingError(c, err)
			return
		}
	}

	order, err := h.orderService.Cancel(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}
