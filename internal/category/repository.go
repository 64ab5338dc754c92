package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"maison-be/internal/logger"

	"go.uber.org/zap"
)

var ErrCategoryNotFound = errors.New("category not found")

type Repository interface {
	GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
	RenameCategory(ctx context.Context, categoryID, name string) error
	DeleteCategory(ctx context.Context, categoryID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCategories(
	ctx context.Context,
	filter *string,
	limit *int32,
	page *int32,
) ([]*Category, error) {

	finalLimit := int32(20)
	finalPage := int32(1)

	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}

	finalOffset := (finalPage - 1) * finalLimit

	log := logger.FromCtx(ctx).With(
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
	)

	query := `
		SELECT
			c.id,
			c.name
		FROM categories c
	`

	where := []string{}
	args := []interface{}{}

	if filter != nil && *filter != "" {
		where = append(where, fmt.Sprintf("c.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*filter+"%")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY c.name ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, finalLimit, finalOffset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("GetCategories query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (r *repository) AddCategory(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, name`,
		name,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		logger.FromCtx(ctx).Error("AddCategory failed", zap.Error(err))
		return nil, err
	}

	return &c, nil
}

func (r *repository) RenameCategory(ctx context.Context, categoryID, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`,
		name, categoryID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func (r *repository) DeleteCategory(ctx context.Context, categoryID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1`,
		categoryID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
