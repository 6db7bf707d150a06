package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cartapp "github.com/storefront/backend/internal/application/cart"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// MockOrderRepository implements order.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*order.Order]), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*order.Order]), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository implements identity.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.User], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*identity.User]), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockCartStore implements cart.Store for testing
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

// Test setup helpers

func setupOrderHandler(orderRepo *MockOrderRepository, cartStore *MockCartStore, userRepo *MockUserRepository, productRepo *MockProductRepository) *OrderHandler {
	orderService := orderapp.NewOrderService(orderRepo, cartStore, userRepo, nil, nil)
	cartService := cartapp.NewCartService(cartStore, productRepo)
	return NewOrderHandler(orderService, cartService)
}

func createCheckoutUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Jane Doe", "jane@example.com", "secret-password")
	require.NoError(t, err)

	addr, err := valueobject.NewAddress("Jane Doe", "1 Main St", "Springfield", "IL", "62701", "US")
	require.NoError(t, err)
	require.NoError(t, user.AddAddress(addr))
	require.NoError(t, user.SetDefaultAddress(0))
	return user
}

func createCheckoutCart(userID uuid.UUID) *cart.Cart {
	c := cart.New(userID)
	_ = c.AddLine(cart.Line{
		ProductID:    uuid.New(),
		ProductTitle: "Walnut Desk",
		ProductSlug:  "walnut-desk",
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(10),
	})
	return c
}

// Tests

func TestOrderHandler_PlaceOrder_Success(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	cartStore := new(MockCartStore)
	userRepo := new(MockUserRepository)
	productRepo := new(MockProductRepository)
	handler := setupOrderHandler(orderRepo, cartStore, userRepo, productRepo)

	user := createCheckoutUser(t)
	cartStore.On("Get", mock.Anything, user.ID).Return(createCheckoutCart(user.ID), nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	cartStore.On("Delete", mock.Anything, user.ID).Return(nil)

	router := setupTestRouter()
	router.POST("/orders", handler.PlaceOrder)

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("X-User-ID", user.ID.String())
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	orderRepo.AssertExpectations(t)
	cartStore.AssertExpectations(t)
}

func TestOrderHandler_PlaceOrder_MissingIdentity(t *testing.T) {
	handler := setupOrderHandler(new(MockOrderRepository), new(MockCartStore), new(MockUserRepository), new(MockProductRepository))

	router := setupTestRouter()
	router.POST("/orders", handler.PlaceOrder)

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_PlaceOrder_EmptyCart(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	cartStore := new(MockCartStore)
	userRepo := new(MockUserRepository)
	handler := setupOrderHandler(orderRepo, cartStore, userRepo, new(MockProductRepository))

	user := createCheckoutUser(t)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	cartStore.On("Get", mock.Anything, user.ID).Return(cart.New(user.ID), nil)

	router := setupTestRouter()
	router.POST("/orders", handler.PlaceOrder)

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("X-User-ID", user.ID.String())
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "items")
	orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderHandler_PlaceOrder_WithExplicitItems(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	cartStore := new(MockCartStore)
	userRepo := new(MockUserRepository)
	productRepo := new(MockProductRepository)
	handler := setupOrderHandler(orderRepo, cartStore, userRepo, productRepo)

	user := createCheckoutUser(t)
	product := createCatalogProduct("Walnut Desk", "walnut-desk", 499)
	product.SetStock(5)

	// The explicit items list replaces the server cart before checkout.
	workingCart := cart.New(user.ID)
	cartStore.On("Delete", mock.Anything, user.ID).Return(nil)
	cartStore.On("Get", mock.Anything, user.ID).Return(workingCart, nil)
	cartStore.On("Save", mock.Anything, workingCart).Return(nil)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	router := setupTestRouter()
	router.POST("/orders", handler.PlaceOrder)

	body, _ := json.Marshal(map[string]any{
		"items": []map[string]any{
			{"productId": product.ID, "quantity": 1},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", user.ID.String())
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestOrderHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	handler := setupOrderHandler(orderRepo, new(MockCartStore), new(MockUserRepository), new(MockProductRepository))

	user := createCheckoutUser(t)
	c := createCheckoutCart(user.ID)
	addr, _ := user.DefaultAddress()

	items := make([]order.Item, 0, len(c.Lines))
	for _, line := range c.Lines {
		item, err := order.NewItem(line.ProductID, line.ProductTitle, line.ProductSlug, nil, line.Quantity, line.UnitPrice)
		require.NoError(t, err)
		items = append(items, item)
	}
	o, err := order.New(user.ID, items, addr)
	require.NoError(t, err)

	orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	router := setupTestRouter()
	router.PATCH("/orders/:id/status", handler.UpdateStatus)

	// pending orders cannot jump straight to delivered
	body, _ := json.Marshal(orderapp.UpdateStatusRequest{Status: "delivered"})
	req := httptest.NewRequest(http.MethodPatch, "/orders/"+o.ID.String()+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderHandler_List_ForUser(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	handler := setupOrderHandler(orderRepo, new(MockCartStore), new(MockUserRepository), new(MockProductRepository))

	userID := uuid.New()
	page := shared.NewPaginated([]*order.Order{}, 0, 1, 20)
	orderRepo.On("FindByUserID", mock.Anything, userID, mock.Anything).Return(&page, nil)

	router := setupTestRouter()
	router.GET("/orders", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/orders?userId="+userID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	orderRepo.AssertExpectations(t)
}
