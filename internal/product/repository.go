package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"maison-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error)
	GetList(ctx context.Context, opts ProductQueryOptions) ([]*Product, error)
	Create(ctx context.Context, input NewProductInput, slug string) (*Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*Product, error)
	Archive(ctx context.Context, productID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id,
	p.name,
	p.slug,
	p.category_id,
	COALESCE(c.name, 'UNKNOWN'),
	p.price,
	p.stock,
	p.status,
	p.description,
	p.imageurl,
	p.color_variants,
	p.created_at,
	p.updated_at
`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.CategoryID,
		&p.CategoryName,
		&p.Price,
		&p.Stock,
		&p.Status,
		&p.Description,
		&p.ImageURL,
		pq.Array(&p.ColorVariants),
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error) {
	query := `
	SELECT ` + productColumns + `
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	WHERE p.id = $1
	`
	if opts.OnlyActive {
		query += ` AND p.status = 'active'`
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, opts.ProductID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) GetList(ctx context.Context, opts ProductQueryOptions) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetList"),
	)

	start := time.Now()

	// ---------- pagination ----------
	finalLimit := int32(20)
	if opts.Limit != nil && *opts.Limit > 0 {
		finalLimit = *opts.Limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := int32(1)
	if opts.Page != nil && *opts.Page > 0 {
		finalPage = *opts.Page
	}

	offset := (finalPage - 1) * finalLimit

	// ---------- where ----------
	where := []string{"p.status = 'active'"}
	args := []any{}

	if opts.CategoryID != nil && *opts.CategoryID != "" {
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)+1))
		args = append(args, *opts.CategoryID)
	}

	if opts.Search != nil && *opts.Search != "" {
		where = append(where, fmt.Sprintf("p.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*opts.Search+"%")
	}

	if opts.InStock != nil {
		if *opts.InStock {
			where = append(where, "p.stock > 0")
		} else {
			where = append(where, "p.stock = 0")
		}
	}

	// ---------- sort ----------
	field := "p.created_at"
	switch opts.SortField {
	case "price":
		field = "p.price"
	case "name":
		field = "p.name"
	case "stock":
		field = "p.stock"
	}

	dir := "DESC"
	if opts.SortAsc {
		dir = "ASC"
	}

	query := `
	SELECT ` + productColumns + `
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY ` + field + " " + dir + `
	LIMIT $` + fmt.Sprint(len(args)+1) + `
	OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	defer rows.Close()

	result := make([]*Product, 0, finalLimit)

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Info("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (r *repository) Create(ctx context.Context, input NewProductInput, slug string) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("name", input.Name),
	)

	query := `
	INSERT INTO products (
		name,
		slug,
		category_id,
		price,
		stock,
		status,
		description,
		imageurl,
		color_variants
	)
	VALUES ($1, $2, $3, $4, $5, 'active', $6, $7, $8)
	RETURNING id
	`

	var id string
	err := r.db.QueryRowContext(
		ctx,
		query,
		input.Name,
		slug,
		input.CategoryID,
		input.Price,
		input.Stock,
		input.Description,
		input.ImageURL,
		pq.Array(input.ColorVariants),
	).Scan(&id)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", id))

	return r.GetProductByID(ctx, GetProductOptions{ProductID: id})
}

func (r *repository) Update(ctx context.Context, input UpdateProductInput) (*Product, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}

	appendField := func(column string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, val)
	}

	if input.Name != nil {
		appendField("name", *input.Name)
	}
	if input.CategoryID != nil {
		appendField("category_id", *input.CategoryID)
	}
	if input.Price != nil {
		appendField("price", *input.Price)
	}
	if input.Stock != nil {
		appendField("stock", *input.Stock)
	}
	if input.Status != nil {
		appendField("status", *input.Status)
	}
	if input.Description != nil {
		appendField("description", *input.Description)
	}
	if input.ImageURL != nil {
		appendField("imageurl", *input.ImageURL)
	}
	if input.ColorVariants != nil {
		appendField("color_variants", pq.Array(input.ColorVariants))
	}

	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d",
		strings.Join(set, ", "),
		len(args)+1,
	)
	args = append(args, input.ProductID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}

	return r.GetProductByID(ctx, GetProductOptions{ProductID: input.ProductID})
}

func (r *repository) Archive(ctx context.Context, productID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET status = 'archived', updated_at = NOW() WHERE id = $1`,
		productID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}
