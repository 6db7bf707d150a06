package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockCartStore is a mock implementation of cart.Store
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartStore) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func createTestProduct(t *testing.T, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Red Chair", "", "A comfy red chair",
		valueobject.NewMoneyUSD(decimal.NewFromFloat(19.99)))
	require.NoError(t, err)
	require.NoError(t, product.SetStock(stock))
	return product
}

func TestCartService_AddItem(t *testing.T) {
	mockStore := new(MockCartStore)
	mockProducts := new(MockProductRepository)
	service := NewCartService(mockStore, mockProducts)

	ctx := context.Background()
	userID := uuid.New()
	product := createTestProduct(t, 10)

	mockProducts.On("FindByID", ctx, product.ID).Return(product, nil)
	mockStore.On("Get", ctx, userID).Return(cart.New(userID), nil)
	mockStore.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

	result, err := service.AddItem(ctx, userID, AddItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	})

	assert.NoError(t, err)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "Red Chair", result.Lines[0].ProductTitle)
	assert.True(t, result.Lines[0].UnitPrice.Equal(decimal.NewFromFloat(19.99)), "price is snapshotted from the catalog")
	assert.True(t, result.Total.Equal(decimal.NewFromFloat(39.98)))
	mockStore.AssertExpectations(t)
}

func TestCartService_AddItem_VariantPriceOverride(t *testing.T) {
	mockStore := new(MockCartStore)
	mockProducts := new(MockProductRepository)
	service := NewCartService(mockStore, mockProducts)

	ctx := context.Background()
	userID := uuid.New()
	product := createTestProduct(t, 10)
	override := decimal.NewFromFloat(24.99)
	require.NoError(t, product.AddVariant(catalog.ProductVariant{Name: "Color", Value: "Blue", Price: &override}))

	mockProducts.On("FindByID", ctx, product.ID).Return(product, nil)
	mockStore.On("Get", ctx, userID).Return(cart.New(userID), nil)
	mockStore.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

	result, err := service.AddItem(ctx, userID, AddItemRequest{
		ProductID:    product.ID,
		VariantName:  "Color",
		VariantValue: "Blue",
		Quantity:     1,
	})

	assert.NoError(t, err)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "Blue", result.Lines[0].VariantValue)
	assert.True(t, result.Lines[0].UnitPrice.Equal(override))
}

func TestCartService_AddItem_UnknownVariant(t *testing.T) {
	mockStore := new(MockCartStore)
	mockProducts := new(MockProductRepository)
	service := NewCartService(mockStore, mockProducts)

	ctx := context.Background()
	userID := uuid.New()
	product := createTestProduct(t, 10)

	mockProducts.On("FindByID", ctx, product.ID).Return(product, nil)

	result, err := service.AddItem(ctx, userID, AddItemRequest{
		ProductID:    product.ID,
		VariantName:  "Color",
		VariantValue: "Chartreuse",
		Quantity:     1,
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_VARIANT", domainErr.Code)
	mockStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_OutOfStock(t *testing.T) {
	mockStore := new(MockCartStore)
	mockProducts := new(MockProductRepository)
	service := NewCartService(mockStore, mockProducts)

	ctx := context.Background()
	userID := uuid.New()
	product := createTestProduct(t, 1)

	mockProducts.On("FindByID", ctx, product.ID).Return(product, nil)

	result, err := service.AddItem(ctx, userID, AddItemRequest{
		ProductID: product.ID,
		Quantity:  3,
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "OUT_OF_STOCK", domainErr.Code)
}

func TestCartService_UpdateItem_RemovesOnZero(t *testing.T) {
	mockStore := new(MockCartStore)
	mockProducts := new(MockProductRepository)
	service := NewCartService(mockStore, mockProducts)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	c := cart.New(userID)
	require.NoError(t, c.AddLine(cart.Line{
		ProductID: productID,
		Quantity:  2,
		UnitPrice: decimal.NewFromInt(10),
	}))

	mockStore.On("Get", ctx, userID).Return(c, nil)
	mockStore.On("Save", ctx, c).Return(nil)

	result, err := service.UpdateItem(ctx, userID, UpdateItemRequest{
		ProductID: productID,
		Quantity:  0,
	})

	assert.NoError(t, err)
	assert.Empty(t, result.Lines)
	assert.True(t, result.Total.IsZero())
}

func TestCartService_Clear(t *testing.T) {
	mockStore := new(MockCartStore)
	service := NewCartService(mockStore, new(MockProductRepository))

	ctx := context.Background()
	userID := uuid.New()
	mockStore.On("Delete", ctx, userID).Return(nil)

	assert.NoError(t, service.Clear(ctx, userID))
	mockStore.AssertExpectations(t)
}
