package order

import (
	"context"
	"database/sql"

	"maison-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderFromCart(ctx context.Context, userID uint, invoiceNumber string) (*Order, error)
	GetByInvoice(ctx context.Context, invoiceNumber string) (*Order, error)
	UpdateStatusByInvoice(ctx context.Context, invoiceNumber string, status OrderStatus) error
	GetOrderDetail(ctx context.Context, orderID string) (*Order, error)
	GetOrdersByUser(ctx context.Context, userID uint) ([]*Order, error)
	ClearCartForUser(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderFromCart copies the active cart into a new pending order inside
// one transaction. The order items carry the cart's price snapshots so later
// price changes never move an order total.
func (r *repository) CreateOrderFromCart(ctx context.Context, userID uint, invoiceNumber string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderFromCart"),
		zap.Uint("user_id", userID),
		zap.String("invoice_number", invoiceNumber),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var cartID string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM carts
		WHERE user_id = $1 AND status = 'active'
	`, userID).Scan(&cartID)
	if err == sql.ErrNoRows {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT i.product_id, p.name, i.quantity, i.price_at_time, i.color_variant
		FROM cart_items i
		JOIN products p ON i.product_id = p.id
		WHERE i.cart_id = $1
	`, cartID)
	if err != nil {
		return nil, err
	}

	var items []OrderItem
	var total float64
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.PriceAtTime, &item.ColorVariant); err != nil {
			rows.Close()
			return nil, err
		}
		total += float64(item.Quantity) * item.PriceAtTime
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &Order{
		UserID:        userID,
		InvoiceNumber: invoiceNumber,
		Total:         total,
		Status:        StatusPending,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, invoice_number, total, status)
		VALUES ($1, $2, $3, 'PENDING')
		RETURNING id, created_at, updated_at
	`, userID, invoiceNumber, total).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	for i := range items {
		items[i].OrderID = order.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price_at_time, color_variant)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`,
			order.ID, items[i].ProductID, items[i].ProductName,
			items[i].Quantity, items[i].PriceAtTime, items[i].ColorVariant,
		).Scan(&items[i].ID)
		if err != nil {
			log.Error("failed to insert order item", zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.Items = items

	log.Info("order created",
		zap.String("order_id", order.ID),
		zap.Int("items", len(items)),
		zap.Float64("total", total),
	)

	return order, nil
}

func (r *repository) GetByInvoice(ctx context.Context, invoiceNumber string) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, invoice_number, total, status, created_at, updated_at
		FROM orders
		WHERE invoice_number = $1
	`, invoiceNumber).Scan(
		&o.ID, &o.UserID, &o.InvoiceNumber, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) UpdateStatusByInvoice(ctx context.Context, invoiceNumber string, status OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    updated_at = NOW()
		WHERE invoice_number = $2
	`, status, invoiceNumber)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *repository) GetOrderDetail(ctx context.Context, orderID string) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, invoice_number, total, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.InvoiceNumber, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price_at_time, color_variant
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.PriceAtTime, &item.ColorVariant,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) GetOrdersByUser(ctx context.Context, userID uint) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, invoice_number, total, status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o := &Order{}
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.InvoiceNumber, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// ClearCartForUser closes out the active cart after payment: the cart flips
// to ordered and its items are deleted.
func (r *repository) ClearCartForUser(ctx context.Context, userID uint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var cartID string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM carts
		WHERE user_id = $1 AND status = 'active'
	`, userID).Scan(&cartID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE carts SET status = 'ordered', total_price = 0, updated_at = NOW() WHERE id = $1
	`, cartID); err != nil {
		return err
	}

	return tx.Commit()
}
