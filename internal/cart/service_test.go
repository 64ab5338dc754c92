package cart

import (
	"context"
	"errors"
	"testing"

	"maison-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetOrCreateCart(ctx context.Context, userID uint) (*Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cart), args.Error(1)
}

func (m *MockRepository) GetItemByKey(ctx context.Context, cartID, productID string, colorVariant *string) (*Item, error) {
	args := m.Called(ctx, cartID, productID, colorVariant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) CreateItem(ctx context.Context, params CreateItemParams) (*Item, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*Item, error) {
	args := m.Called(ctx, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) RemoveItem(ctx context.Context, cartID, productID string, colorVariant *string) error {
	args := m.Called(ctx, cartID, productID, colorVariant)
	return args.Error(0)
}

func (m *MockRepository) CountItems(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ClearItems(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *MockRepository) GetCartRows(ctx context.Context, userID uint) ([]*CartRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*CartRow), args.Error(1)
}

func (m *MockRepository) RefreshCartTotal(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// MockProductRepository is a mock for the product repository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, opts product.GetProductOptions) (*product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetList(ctx context.Context, opts product.ProductQueryOptions) ([]*product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, input product.NewProductInput, slug string) (*product.Product, error) {
	args := m.Called(ctx, input, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, input product.UpdateProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Archive(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func TestService_AddToCart(t *testing.T) {
	ctx := context.Background()
	userID := uint(1)
	rose := "rose"

	params := AddToCartParams{
		UserID:       userID,
		ProductID:    "p1",
		Quantity:     2,
		ColorVariant: &rose,
	}

	t.Run("Success - New Item snapshots current price", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProductRepo := new(MockProductRepository)
		svc := NewService(mockRepo, mockProductRepo)

		mockProductRepo.On("GetProductByID", ctx, mock.Anything).
			Return(&product.Product{ID: "p1", Price: 89.0, Stock: 10}, nil).Once()
		mockRepo.On("GetOrCreateCart", ctx, userID).Return(&Cart{ID: "cart-1"}, nil).Once()
		mockRepo.On("GetItemByKey", ctx, "cart-1", "p1", &rose).Return(nil, nil).Once()
		mockRepo.On("CreateItem", ctx, CreateItemParams{
			CartID:       "cart-1",
			ProductID:    "p1",
			Quantity:     2,
			PriceAtTime:  89.0,
			ColorVariant: &rose,
		}).Return(&Item{ID: "item-1", PriceAtTime: 89.0}, nil).Once()
		mockRepo.On("RefreshCartTotal", ctx, "cart-1").Return(nil).Once()

		item, err := svc.AddToCart(ctx, params)

		assert.NoError(t, err)
		assert.Equal(t, 89.0, item.PriceAtTime)
		mockProductRepo.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Existing Item sums quantity, keeps snapshot", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProductRepo := new(MockProductRepository)
		svc := NewService(mockRepo, mockProductRepo)

		existing := &Item{ID: "item-1", Quantity: 1, PriceAtTime: 75.0}

		mockProductRepo.On("GetProductByID", ctx, mock.Anything).
			Return(&product.Product{ID: "p1", Price: 89.0, Stock: 10}, nil).Once()
		mockRepo.On("GetOrCreateCart", ctx, userID).Return(&Cart{ID: "cart-1"}, nil).Once()
		mockRepo.On("GetItemByKey", ctx, "cart-1", "p1", &rose).Return(existing, nil).Once()
		mockRepo.On("UpdateItemQuantity", ctx, "item-1", 3).
			Return(&Item{ID: "item-1", Quantity: 3, PriceAtTime: 75.0}, nil).Once()
		mockRepo.On("RefreshCartTotal", ctx, "cart-1").Return(nil).Once()

		item, err := svc.AddToCart(ctx, params)

		assert.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
		// the old snapshot survives even though the live price changed
		assert.Equal(t, 75.0, item.PriceAtTime)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Unauthorized", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		_, err := svc.AddToCart(ctx, AddToCartParams{ProductID: "p1", Quantity: 1})

		assert.Equal(t, ErrUserNotAuthenticated, err)
	})

	t.Run("Error - Product Not Found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProductRepo := new(MockProductRepository)
		svc := NewService(mockRepo, mockProductRepo)

		mockProductRepo.On("GetProductByID", ctx, mock.Anything).Return(nil, nil).Once()

		_, err := svc.AddToCart(ctx, params)

		assert.Equal(t, ErrProductNotFound, err)
	})

	t.Run("Error - Insufficient Stock", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProductRepo := new(MockProductRepository)
		svc := NewService(mockRepo, mockProductRepo)

		mockProductRepo.On("GetProductByID", ctx, mock.Anything).
			Return(&product.Product{ID: "p1", Price: 89.0, Stock: 1}, nil).Once()
		mockRepo.On("GetOrCreateCart", ctx, userID).Return(&Cart{ID: "cart-1"}, nil).Once()
		mockRepo.On("GetItemByKey", ctx, "cart-1", "p1", &rose).Return(nil, nil).Once()

		_, err := svc.AddToCart(ctx, params)

		assert.Equal(t, ErrInsufficientStock, err)
	})
}

func TestService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uint(1)

	t.Run("Success - Update", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))

		mockRepo.On("GetOrCreateCart", ctx, userID).Return(&Cart{ID: "cart-1"}, nil).Once()
		mockRepo.On("GetItemByKey", ctx, "cart-1", "p1", (*string)(nil)).
			Return(&Item{ID: "item-1", Quantity: 2}, nil).Once()
		mockRepo.On("UpdateItemQuantity", ctx, "item-1", 5).
			Return(&Item{ID: "item-1", Quantity: 5}, nil).Once()
		mockRepo.On("RefreshCartTotal", ctx, "cart-1").Return(nil).Once()

		err := svc.UpdateQuantity(ctx, UpdateQuantityParams{UserID: userID, ProductID: "p1", Quantity: 5})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Zero quantity removes the line", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))

		mockRepo.On("GetOrCreateCart", ctx, userID).Return(&Cart{ID: "cart-1"}, nil).Once()
		mockRepo.On("RemoveItem", ctx, "cart-1", "p1", (*string)(nil)).Return(nil).Once()
		mockRepo.On("RefreshCartTotal", ctx, "cart-1").Return(nil).Once()

		err := svc.UpdateQuantity(ctx, UpdateQuantityParams{UserID: userID, ProductID: "p1", Quantity: 0})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Unauthorized", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		err := svc.UpdateQuantity(ctx, UpdateQuantityParams{ProductID: "p1", Quantity: 1})

		assert.Equal(t, ErrUserNotAuthenticated, err)
	})
}

func TestService_CountItems(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))

		mockRepo.On("CountItems", ctx, uint(1)).Return(int64(5), nil).Once()

		count, err := svc.CountItems(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})

	t.Run("Error - Unauthorized", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		_, err := svc.CountItems(ctx, 0)

		assert.Equal(t, ErrUserNotAuthenticated, err)
	})
}

func TestService_GetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Error - repository failure wrapped", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))

		mockRepo.On("GetCartRows", ctx, uint(1)).Return(nil, errors.New("db error")).Once()

		_, err := svc.GetCart(ctx, 1)

		assert.Equal(t, ErrFailedGetCartRows, err)
	})
}

func TestService_ClearCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))

		mockRepo.On("GetOrCreateCart", ctx, uint(1)).Return(&Cart{ID: "cart-1"}, nil).Once()
		mockRepo.On("ClearItems", ctx, "cart-1").Return(nil).Once()
		mockRepo.On("RefreshCartTotal", ctx, "cart-1").Return(nil).Once()

		assert.NoError(t, svc.ClearCart(ctx, 1))
		mockRepo.AssertExpectations(t)
	})
}
