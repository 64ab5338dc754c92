package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"maison-be/internal/category"
	"maison-be/internal/order"
	"maison-be/internal/payment"
	"maison-be/internal/product"
	"maison-be/internal/salonservice"
	"maison-be/internal/utils"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetProduct(ctx context.Context, productID string) (*product.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) GetProducts(ctx context.Context, opts product.ProductQueryOptions) ([]*product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, input product.NewProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, input product.UpdateProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) ArchiveProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*category.Category, error) {
	args := m.Called(ctx, filter, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockCategoryService) AddCategory(ctx context.Context, name string) (*category.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) RenameCategory(ctx context.Context, categoryID, name string) error {
	args := m.Called(ctx, categoryID, name)
	return args.Error(0)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID uint, buyer payment.BuyerInfo, bookingRef *string) (*order.Order, *payment.InvoiceResponse, error) {
	args := m.Called(ctx, userID, buyer, bookingRef)
	var o *order.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*order.Order)
	}
	var inv *payment.InvoiceResponse
	if args.Get(1) != nil {
		inv = args.Get(1).(*payment.InvoiceResponse)
	}
	return o, inv, args.Error(2)
}

func (m *MockOrderService) GetOrders(ctx context.Context, userID uint) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrderDetail(ctx context.Context, userID uint, orderID string, isAdmin bool) (*order.Order, error) {
	args := m.Called(ctx, userID, orderID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) PaymentStatus(ctx context.Context, userID uint, orderID string, isAdmin bool) (*payment.Payment, error) {
	args := m.Called(ctx, userID, orderID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockOrderService) MarkAsPaid(ctx context.Context, invoiceNumber string) error {
	args := m.Called(ctx, invoiceNumber)
	return args.Error(0)
}

func (m *MockOrderService) MarkAsFailed(ctx context.Context, invoiceNumber string) error {
	args := m.Called(ctx, invoiceNumber)
	return args.Error(0)
}

func adminRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := utils.SetUserContext(req.Context(), 7, "admin@example.com", "ADMIN")
	return req.WithContext(ctx)
}

func TestCategoryHandler_List(t *testing.T) {
	svc := new(MockCategoryService)
	h := NewCategoryHandler(svc)

	svc.On("GetCategories", mock.Anything, (*string)(nil), (*int32)(nil), (*int32)(nil)).
		Return([]*category.Category{{ID: "c1", Name: "Skincare"}}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []category.Category `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "Skincare", body.Categories[0].Name)
}

func TestCategoryHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockCategoryService)
		h := NewCategoryHandler(svc)

		svc.On("AddCategory", mock.Anything, "Haircare").
			Return(&category.Category{ID: "c2", Name: "Haircare"}, nil)

		rec := httptest.NewRecorder()
		h.Create(rec, adminRequest(http.MethodPost, "/api/admin/categories", `{"name":"Haircare"}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Empty name rejected", func(t *testing.T) {
		svc := new(MockCategoryService)
		h := NewCategoryHandler(svc)

		svc.On("AddCategory", mock.Anything, "").Return(nil, category.ErrEmptyName)

		rec := httptest.NewRecorder()
		h.Create(rec, adminRequest(http.MethodPost, "/api/admin/categories", `{"name":""}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoryHandler_Rename(t *testing.T) {
	t.Run("Unknown category returns 404", func(t *testing.T) {
		svc := new(MockCategoryService)
		h := NewCategoryHandler(svc)

		svc.On("RenameCategory", mock.Anything, "ghost", "Nails").
			Return(category.ErrCategoryNotFound)

		req := adminRequest(http.MethodPut, "/api/admin/categories/ghost", `{"name":"Nails"}`)
		req.SetPathValue("id", "ghost")
		rec := httptest.NewRecorder()
		h.Rename(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, new(MockServiceRepo))

		svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in product.NewProductInput) bool {
			return in.Name == "Rose Serum" && in.Price == 42.5
		})).Return(&product.Product{ID: "p1", Name: "Rose Serum", Slug: "rose-serum", Price: 42.5, Status: "active"}, nil)

		rec := httptest.NewRecorder()
		h.Create(rec, adminRequest(http.MethodPost, "/api/admin/products",
			`{"name":"Rose Serum","category_id":"c1","price":42.5,"stock":10}`))

		require.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid price rejected", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, new(MockServiceRepo))

		svc.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, product.ErrInvalidPrice)

		rec := httptest.NewRecorder()
		h.Create(rec, adminRequest(http.MethodPost, "/api/admin/products",
			`{"name":"Rose Serum","price":0}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandler_Archive(t *testing.T) {
	t.Run("Unknown product returns 404", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, new(MockServiceRepo))

		svc.On("ArchiveProduct", mock.Anything, "ghost").Return(product.ErrProductNotFound)

		req := adminRequest(http.MethodDelete, "/api/admin/products/ghost", "")
		req.SetPathValue("id", "ghost")
		rec := httptest.NewRecorder()
		h.Archive(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductHandler_CreateService(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockServiceRepo)
		h := NewProductHandler(new(MockProductService), repo)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(s *salonservice.SalonService) bool {
			return s.Name == "Hydrafacial" && s.Active
		})).Return(&salonservice.SalonService{ID: "s1", Name: "Hydrafacial", Price: 150, DurationMinutes: 60, Active: true}, nil)

		rec := httptest.NewRecorder()
		h.CreateService(rec, adminRequest(http.MethodPost, "/api/admin/services",
			`{"name":"Hydrafacial","price":150,"duration_minutes":60}`))

		require.Equal(t, http.StatusCreated, rec.Code)
		repo.AssertExpectations(t)
	})

	t.Run("Missing fields rejected", func(t *testing.T) {
		repo := new(MockServiceRepo)
		h := NewProductHandler(new(MockProductService), repo)

		rec := httptest.NewRecorder()
		h.CreateService(rec, adminRequest(http.MethodPost, "/api/admin/services", `{"name":""}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProductHandler_SetServiceActive(t *testing.T) {
	repo := new(MockServiceRepo)
	h := NewProductHandler(new(MockProductService), repo)

	repo.On("SetActive", mock.Anything, "s1", false).Return(nil)

	req := adminRequest(http.MethodPatch, "/api/admin/services/s1", `{"active":false}`)
	req.SetPathValue("id", "s1")
	rec := httptest.NewRecorder()
	h.SetServiceActive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestOrderHandler_PaymentStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockOrderService)
		h := NewOrderHandler(svc)

		svc.On("PaymentStatus", mock.Anything, uint(1), "o1", false).
			Return(&payment.Payment{OrderID: "o1", Status: "PENDING", Amount: 99.9, InvoiceURL: "https://inv.test/o1"}, nil)

		req := authedRequest(http.MethodGet, "/api/orders/o1/payment", "")
		req.SetPathValue("id", "o1")
		rec := httptest.NewRecorder()
		h.PaymentStatus(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "PENDING", body["status"])
	})

	t.Run("Foreign order returns 403", func(t *testing.T) {
		svc := new(MockOrderService)
		h := NewOrderHandler(svc)

		svc.On("PaymentStatus", mock.Anything, uint(1), "o2", false).
			Return(nil, order.ErrUnauthorized)

		req := authedRequest(http.MethodGet, "/api/orders/o2/payment", "")
		req.SetPathValue("id", "o2")
		rec := httptest.NewRecorder()
		h.PaymentStatus(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("No payment recorded returns 404", func(t *testing.T) {
		svc := new(MockOrderService)
		h := NewOrderHandler(svc)

		svc.On("PaymentStatus", mock.Anything, uint(1), "o3", false).
			Return(nil, order.ErrPaymentNotFound)

		req := authedRequest(http.MethodGet, "/api/orders/o3/payment", "")
		req.SetPathValue("id", "o3")
		rec := httptest.NewRecorder()
		h.PaymentStatus(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
