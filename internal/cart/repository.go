package cart

import (
	"context"
	"database/sql"
	"time"

	"maison-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetOrCreateCart(ctx context.Context, userID uint) (*Cart, error)
	GetItemByKey(ctx context.Context, cartID, productID string, colorVariant *string) (*Item, error)
	CreateItem(ctx context.Context, params CreateItemParams) (*Item, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*Item, error)
	RemoveItem(ctx context.Context, cartID, productID string, colorVariant *string) error
	CountItems(ctx context.Context, userID uint) (int64, error)
	ClearItems(ctx context.Context, cartID string) error
	GetCartRows(ctx context.Context, userID uint) ([]*CartRow, error)
	RefreshCartTotal(ctx context.Context, cartID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateCart(ctx context.Context, userID uint) (*Cart, error) {
	c := &Cart{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, total_price, created_at, updated_at
		FROM carts
		WHERE user_id = $1 AND status = 'active'
	`, userID).Scan(&c.ID, &c.UserID, &c.Status, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt)

	if err == nil {
		return c, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	// Implicit creation on first add-to-cart.
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id, status, total_price)
		VALUES ($1, 'active', 0)
		RETURNING id, user_id, status, total_price, created_at, updated_at
	`, userID).Scan(&c.ID, &c.UserID, &c.Status, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (r *repository) GetItemByKey(
	ctx context.Context,
	cartID, productID string,
	colorVariant *string,
) (*Item, error) {

	query := `
	SELECT
		id,
		cart_id,
		product_id,
		quantity,
		price_at_time,
		color_variant,
		created_at,
		updated_at
	FROM cart_items
	WHERE cart_id = $1
	  AND product_id = $2
	  AND color_variant IS NOT DISTINCT FROM $3
	`

	item := &Item{}
	row := r.db.QueryRowContext(ctx, query, cartID, productID, colorVariant)
	err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceAtTime,
		&item.ColorVariant,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *repository) CreateItem(ctx context.Context, params CreateItemParams) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateItem"),
		zap.String("cart_id", params.CartID),
		zap.String("product_id", params.ProductID),
	)

	log.Debug("start create cart item")

	query := `
	INSERT INTO cart_items (
		cart_id,
		product_id,
		quantity,
		price_at_time,
		color_variant
	)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING
		id,
		cart_id,
		product_id,
		quantity,
		price_at_time,
		color_variant,
		created_at,
		updated_at
	`

	item := &Item{}
	row := r.db.QueryRowContext(
		ctx,
		query,
		params.CartID,
		params.ProductID,
		params.Quantity,
		params.PriceAtTime,
		params.ColorVariant,
	)

	err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceAtTime,
		&item.ColorVariant,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}

	log.Info("success create cart item", zap.String("cart_item_id", item.ID))

	return item, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*Item, error) {
	query := `
	UPDATE cart_items
	SET quantity = $1,
	    updated_at = NOW()
	WHERE id = $2
	RETURNING
		id,
		cart_id,
		product_id,
		quantity,
		price_at_time,
		color_variant,
		created_at,
		updated_at
	`

	item := &Item{}
	row := r.db.QueryRowContext(ctx, query, quantity, itemID)
	err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceAtTime,
		&item.ColorVariant,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *repository) RemoveItem(ctx context.Context, cartID, productID string, colorVariant *string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1
		  AND product_id = $2
		  AND color_variant IS NOT DISTINCT FROM $3
	`, cartID, productID, colorVariant)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) CountItems(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(i.quantity), 0)
		FROM cart_items i
		JOIN carts c ON i.cart_id = c.id
		WHERE c.user_id = $1 AND c.status = 'active'
	`, userID).Scan(&count)

	return count, err
}

func (r *repository) ClearItems(ctx context.Context, cartID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`,
		cartID,
	)
	return err
}

func (r *repository) GetCartRows(ctx context.Context, userID uint) ([]*CartRow, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCartRows"),
		zap.Uint("user_id", userID),
	)

	start := time.Now()

	query := `
	SELECT
		i.id,
		i.cart_id,
		c.user_id,
		i.product_id,
		p.name,
		p.imageurl,
		p.price,
		i.price_at_time,
		i.quantity,
		i.color_variant,
		i.created_at,
		i.updated_at
	FROM cart_items i
	JOIN carts c ON i.cart_id = c.id
	JOIN products p ON i.product_id = p.id
	WHERE c.user_id = $1 AND c.status = 'active'
	ORDER BY i.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	defer rows.Close()

	result := []*CartRow{}

	for rows.Next() {
		var row CartRow
		if err := rows.Scan(
			&row.ItemID,
			&row.CartID,
			&row.UserID,
			&row.ProductID,
			&row.ProductName,
			&row.ProductImage,
			&row.LivePrice,
			&row.PriceAtTime,
			&row.Quantity,
			&row.ColorVariant,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}

		result = append(result, &row)
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

// RefreshCartTotal recomputes total_price from the price snapshots so the
// cart header stays consistent with its items.
func (r *repository) RefreshCartTotal(ctx context.Context, cartID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET total_price = COALESCE((
			SELECT SUM(quantity * price_at_time)
			FROM cart_items
			WHERE cart_id = $1
		), 0),
		    updated_at = NOW()
		WHERE id = $1
	`, cartID)
	return err
}
