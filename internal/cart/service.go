package cart

import (
	"context"

	"maison-be/internal/product"
)

// Service defines the business logic for the server cart.
type Service interface {
	AddToCart(ctx context.Context, params AddToCartParams) (*Item, error)
	GetCart(ctx context.Context, userID uint) ([]*CartRow, error)
	UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error
	RemoveFromCart(ctx context.Context, params RemoveParams) error
	CountItems(ctx context.Context, userID uint) (int64, error)
	ClearCart(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// AddToCart adds a product to a user's cart. An existing line with the same
// (product, color variant) key has its quantity increased instead of a new
// line being appended; the price snapshot of the existing line is kept.
func (s *service) AddToCart(ctx context.Context, params AddToCartParams) (*Item, error) {
	if params.UserID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	// 1. Only active products can be added.
	p, err := s.productRepo.GetProductByID(ctx, product.GetProductOptions{
		ProductID:  params.ProductID,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	// 2. Implicitly create the active cart on first add.
	c, err := s.repo.GetOrCreateCart(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Existing line for the same key?
	item, err := s.repo.GetItemByKey(ctx, c.ID, params.ProductID, params.ColorVariant)
	if err != nil {
		return nil, err
	}

	finalQty := params.Quantity
	if item != nil {
		finalQty += item.Quantity
	}

	if p.Stock < finalQty {
		return nil, ErrInsufficientStock
	}

	// 4. Create or update. A new line snapshots the current price.
	if item == nil {
		item, err = s.repo.CreateItem(ctx, CreateItemParams{
			CartID:       c.ID,
			ProductID:    params.ProductID,
			Quantity:     params.Quantity,
			PriceAtTime:  p.Price,
			ColorVariant: params.ColorVariant,
		})
	} else {
		item, err = s.repo.UpdateItemQuantity(ctx, item.ID, finalQty)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.RefreshCartTotal(ctx, c.ID); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *service) GetCart(ctx context.Context, userID uint) ([]*CartRow, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	rows, err := s.repo.GetCartRows(ctx, userID)
	if err != nil {
		return nil, ErrFailedGetCartRows
	}

	return rows, nil
}

// UpdateQuantity sets the absolute quantity of a cart line; zero or less
// removes the line.
func (s *service) UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error {
	if params.UserID == 0 {
		return ErrUserNotAuthenticated
	}

	c, err := s.repo.GetOrCreateCart(ctx, params.UserID)
	if err != nil {
		return err
	}

	if params.Quantity <= 0 {
		if err := s.repo.RemoveItem(ctx, c.ID, params.ProductID, params.ColorVariant); err != nil {
			return err
		}
		return s.repo.RefreshCartTotal(ctx, c.ID)
	}

	item, err := s.repo.GetItemByKey(ctx, c.ID, params.ProductID, params.ColorVariant)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}

	if _, err := s.repo.UpdateItemQuantity(ctx, item.ID, params.Quantity); err != nil {
		return err
	}

	return s.repo.RefreshCartTotal(ctx, c.ID)
}

func (s *service) RemoveFromCart(ctx context.Context, params RemoveParams) error {
	if params.UserID == 0 {
		return ErrUserNotAuthenticated
	}

	c, err := s.repo.GetOrCreateCart(ctx, params.UserID)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveItem(ctx, c.ID, params.ProductID, params.ColorVariant); err != nil {
		return err
	}

	return s.repo.RefreshCartTotal(ctx, c.ID)
}

func (s *service) CountItems(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrUserNotAuthenticated
	}
	return s.repo.CountItems(ctx, userID)
}

func (s *service) ClearCart(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}

	c, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.ClearItems(ctx, c.ID); err != nil {
		return ErrFailedClearCart
	}

	return s.repo.RefreshCartTotal(ctx, c.ID)
}
