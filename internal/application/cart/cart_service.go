package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartService handles shopping cart operations. Prices and titles are
// snapshotted from the catalog when an item is added.
type CartService struct {
	cartStore   cart.Store
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartStore cart.Store, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartStore:   cartStore,
		productRepo: productRepo,
	}
}

// Get returns the user's cart, empty if they have none yet
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// AddItem adds a product to the user's cart. The variant, when named,
// must exist on the product; its price override is snapshotted.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var variant *catalog.ProductVariant
	if req.VariantName != "" || req.VariantValue != "" {
		v, ok := product.FindVariant(req.VariantName, req.VariantValue)
		if !ok {
			return nil, shared.NewDomainError("INVALID_VARIANT", "Product has no such variant")
		}
		variant = &v
	}

	if product.EffectiveStock(variant) < req.Quantity {
		return nil, shared.NewDomainError("OUT_OF_STOCK", "Not enough stock for this product")
	}

	c, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := cart.Line{
		ProductID:    product.ID,
		ProductTitle: product.Title,
		ProductSlug:  product.Slug,
		Quantity:     req.Quantity,
		UnitPrice:    product.EffectivePrice(variant),
	}
	if variant != nil {
		line.VariantName = variant.Name
		line.VariantValue = variant.Value
	}

	if err := c.AddLine(line); err != nil {
		return nil, err
	}

	if err := s.cartStore.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// UpdateItem sets the quantity of a cart line; zero removes it
func (s *CartService) UpdateItem(ctx context.Context, userID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.SetQuantity(req.ProductID, req.VariantName, req.VariantValue, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartStore.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// RemoveItem removes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, variantName, variantValue string) (*CartResponse, error) {
	c, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveLine(productID, variantName, variantValue); err != nil {
		return nil, err
	}

	if err := s.cartStore.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartStore.Delete(ctx, userID)
}
