package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler handles server-held cart API endpoints. A cart is keyed
// by the owning user's ID, which doubles as the cart ID in routes.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// RegisterRoutes registers cart routes on the API group
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/carts/:id")
	{
		carts.GET("", h.Get)
		carts.GET("/items", h.Get)
		carts.POST("/items", h.AddItem)
		carts.PUT("/items/:productId", h.UpdateItem)
		carts.DELETE("/items/:productId", h.RemoveItem)
		carts.DELETE("", h.Clear)
	}
}

// Get returns the cart with its lines and total
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.cartID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem adds a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.cartID(c)
	if !ok {
		return
	}

	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem sets the quantity of a cart line. Quantity zero removes it.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := h.cartID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var body struct {
		VariantName  string `json:"variantName"`
		VariantValue string `json:"variantValue"`
		Quantity     int64  `json:"quantity" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), userID, cartapp.UpdateItemRequest{
		ProductID:    productID,
		VariantName:  body.VariantName,
		VariantValue: body.VariantValue,
		Quantity:     body.Quantity,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem removes a cart line. Variant lines are addressed with the
// variantName and variantValue query parameters.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.cartID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID,
		c.Query("variantName"), c.Query("variantValue"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.cartID(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CartHandler) cartID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart ID format")
		return uuid.Nil, false
	}
	return userID, true
}
