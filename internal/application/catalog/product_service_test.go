package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockProductRepository is a mock implementation of ProductRepository
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

func createTestProduct() *catalog.Product {
	product, _ := catalog.NewProduct("Red Chair", "", "A comfy red chair",
		valueobject.NewMoneyUSD(decimal.NewFromFloat(19.99)))
	return product
}

func TestProductService_Create_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	stock := int64(5)
	req := CreateProductRequest{
		Title:       "Red Chair",
		Description: "A comfy red chair",
		Price:       decimal.NewFromFloat(19.99),
		Images:      []string{"https://cdn.example.com/chair.jpg"},
		ModelURLs:   []string{"https://cdn.example.com/chair.glb"},
		Stock:       &stock,
		Tags:        []string{"furniture"},
	}

	mockRepo.On("ExistsBySlug", ctx, "red-chair").Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Red Chair", result.Title)
	assert.Equal(t, "red-chair", result.Slug)
	assert.Equal(t, "USD", result.Currency)
	assert.True(t, result.Price.Equal(decimal.NewFromFloat(19.99)))
	assert.Equal(t, int64(5), result.Stock)
	assert.True(t, result.InStock)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create_DuplicateSlug(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	req := CreateProductRequest{
		Title:       "Red Chair",
		Description: "A chair",
		Price:       decimal.NewFromInt(10),
	}

	mockRepo.On("ExistsBySlug", ctx, "red-chair").Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Create_InvalidCurrency(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	req := CreateProductRequest{
		Title:       "Red Chair",
		Description: "A chair",
		Price:       decimal.NewFromInt(10),
		Currency:    "XYZ",
	}

	mockRepo.On("ExistsBySlug", ctx, "red-chair").Return(false, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestProductService_GetBySlug(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	product := createTestProduct()

	mockRepo.On("FindBySlug", ctx, "red-chair").Return(product, nil)

	result, err := service.GetBySlug(ctx, "red-chair")

	assert.NoError(t, err)
	assert.Equal(t, product.ID, result.ID)
	assert.Equal(t, "red-chair", result.Slug)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetBySlug_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	mockRepo.On("FindBySlug", ctx, "missing").Return(nil, shared.ErrNotFound)

	result, err := service.GetBySlug(ctx, "missing")

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
}

func TestProductService_List(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	products := []*catalog.Product{createTestProduct()}
	page := shared.NewPaginated(products, 1, 1, 20)

	mockRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.Filters["tag"] == "furniture"
	})).Return(&page, nil)

	result, total, err := service.List(ctx, ProductListFilter{Tag: "furniture"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, result, 1)
	assert.Equal(t, "red-chair", result[0].Slug)
	mockRepo.AssertExpectations(t)
}

func TestProductService_List_PriceRange(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	page := shared.NewPaginated([]*catalog.Product{}, 0, 1, 20)
	minPrice := 10.0
	maxPrice := 50.0

	mockRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		min, okMin := f.Filters["min_price"].(decimal.Decimal)
		max, okMax := f.Filters["max_price"].(decimal.Decimal)
		return okMin && okMax &&
			min.Equal(decimal.NewFromInt(10)) && max.Equal(decimal.NewFromInt(50))
	})).Return(&page, nil)

	_, _, err := service.List(ctx, ProductListFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Update(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	product := createTestProduct()
	newTitle := "Blue Chair"
	newPrice := decimal.NewFromFloat(24.99)

	mockRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockRepo.On("Save", ctx, product).Return(nil)

	result, err := service.Update(ctx, product.ID, UpdateProductRequest{
		Title: &newTitle,
		Price: &newPrice,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Blue Chair", result.Title)
	assert.Equal(t, "red-chair", result.Slug, "slug must stay stable across updates")
	assert.True(t, result.Price.Equal(newPrice))
	mockRepo.AssertExpectations(t)
}

func TestProductService_Variants(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	product := createTestProduct()

	mockRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockRepo.On("Save", ctx, product).Return(nil)

	result, err := service.AddVariant(ctx, product.ID, VariantPayload{Name: "Color", Value: "Blue"})

	assert.NoError(t, err)
	assert.Len(t, result.Variants, 1)

	result, err = service.RemoveVariant(ctx, product.ID, "Color", "Blue")

	assert.NoError(t, err)
	assert.Empty(t, result.Variants)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo)

	ctx := context.Background()
	id := uuid.New()
	mockRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := service.Delete(ctx, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
