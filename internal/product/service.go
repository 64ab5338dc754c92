package product

import (
	"context"

	"maison-be/internal/logger"
	"maison-be/internal/utils"

	"go.uber.org/zap"
)

// Service defines the business logic for the product catalog.
type Service interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
	GetProducts(ctx context.Context, opts ProductQueryOptions) ([]*Product, error)
	CreateProduct(ctx context.Context, input NewProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*Product, error)
	ArchiveProduct(ctx context.Context, productID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProduct(ctx context.Context, productID string) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, GetProductOptions{
		ProductID:  productID,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) GetProducts(ctx context.Context, opts ProductQueryOptions) ([]*Product, error) {
	return s.repo.GetList(ctx, opts)
}

func (s *service) CreateProduct(ctx context.Context, input NewProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	if input.Name == "" {
		return nil, ErrMissingName
	}
	if input.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	p, err := s.repo.Create(ctx, input, utils.Slugify(input.Name))
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, ErrFailedCreateProduct
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, input UpdateProductInput) (*Product, error) {
	if input.Price != nil && *input.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	p, err := s.repo.Update(ctx, input)
	if err != nil {
		if err == ErrProductNotFound {
			return nil, err
		}
		return nil, ErrFailedUpdateProduct
	}

	return p, nil
}

func (s *service) ArchiveProduct(ctx context.Context, productID string) error {
	return s.repo.Archive(ctx, productID)
}
