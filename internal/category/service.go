package category

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyName = errors.New("category name is required")

// Service defines the business logic for categories.
type Service interface {
	GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
	RenameCategory(ctx context.Context, categoryID, name string) error
	DeleteCategory(ctx context.Context, categoryID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error) {
	return s.repo.GetCategories(ctx, filter, limit, page)
}

func (s *service) AddCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return s.repo.AddCategory(ctx, name)
}

func (s *service) RenameCategory(ctx context.Context, categoryID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.repo.RenameCategory(ctx, categoryID, name)
}

func (s *service) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.repo.DeleteCategory(ctx, categoryID)
}
