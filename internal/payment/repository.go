package payment

import (
	"context"
	"database/sql"
)

type Repository interface {
	SavePayment(ctx context.Context, p *Payment) error
	UpdateStatusByExternalID(ctx context.Context, externalID, status string) error
	GetPaymentByOrder(ctx context.Context, orderID string) (*Payment, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (
			order_id,
			external_id,
			invoice_url,
			amount,
			status,
			payment_method,
			booking_ref
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		p.OrderID, p.ExternalID, p.InvoiceURL, p.Amount, p.Status, p.PaymentMethod, p.BookingRef,
	)
	return err
}

func (r *repository) UpdateStatusByExternalID(ctx context.Context, externalID, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $1,
		    updated_at = NOW()
		WHERE external_id = $2
	`, status, externalID)
	return err
}

func (r *repository) GetPaymentByOrder(ctx context.Context, orderID string) (*Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, external_id, invoice_url, amount, status, payment_method, booking_ref, created_at, updated_at
		FROM payments
		WHERE order_id = $1
	`, orderID)

	var p Payment
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.ExternalID,
		&p.InvoiceURL,
		&p.Amount,
		&p.Status,
		&p.PaymentMethod,
		&p.BookingRef,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
