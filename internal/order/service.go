package order

import (
	"context"
	"fmt"

	"maison-be/internal/logger"
	"maison-be/internal/payment"
	"maison-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	CreateOrder(ctx context.Context, userID uint, buyer payment.BuyerInfo, bookingRef *string) (*Order, *payment.InvoiceResponse, error)
	GetOrders(ctx context.Context, userID uint) ([]*Order, error)
	GetOrderDetail(ctx context.Context, userID uint, orderID string, isAdmin bool) (*Order, error)
	PaymentStatus(ctx context.Context, userID uint, orderID string, isAdmin bool) (*payment.Payment, error)
	MarkAsPaid(ctx context.Context, invoiceNumber string) error
	MarkAsFailed(ctx context.Context, invoiceNumber string) error
}

type service struct {
	repo        Repository
	paymentRepo payment.Repository
	paymentGate payment.Gateway
}

func NewService(repo Repository, payRepo payment.Repository, payGate payment.Gateway) Service {
	return &service{
		repo:        repo,
		paymentRepo: payRepo,
		paymentGate: payGate,
	}
}

// CreateOrder snapshots the active cart into a pending order and opens an
// invoice with the payment provider. A booking ref rides along when the
// checkout doubles as a deposit for a booking group.
func (s *service) CreateOrder(
	ctx context.Context,
	userID uint,
	buyer payment.BuyerInfo,
	bookingRef *string,
) (*Order, *payment.InvoiceResponse, error) {

	if userID == 0 {
		return nil, nil, ErrUnauthorized
	}

	invoiceNumber := utils.GenerateInvoiceNumber()

	order, err := s.repo.CreateOrderFromCart(ctx, userID, invoiceNumber)
	if err != nil {
		return nil, nil, err
	}

	payResp, err := s.paymentGate.CreateInvoice(ctx, order.InvoiceNumber, buyer, order.Total, bookingRef)
	if err != nil {
		return order, nil, fmt.Errorf("failed to create payment invoice: %w", err)
	}

	p := &payment.Payment{
		OrderID:    order.ID,
		ExternalID: payResp.ExternalID,
		InvoiceURL: payResp.InvoiceURL,
		Amount:     payResp.Amount,
		Status:     payResp.Status,
		BookingRef: bookingRef,
	}

	if err := s.paymentRepo.SavePayment(ctx, p); err != nil {
		return order, nil, fmt.Errorf("failed to save payment: %w", err)
	}

	return order, payResp, nil
}

func (s *service) GetOrders(ctx context.Context, userID uint) ([]*Order, error) {
	return s.repo.GetOrdersByUser(ctx, userID)
}

func (s *service) GetOrderDetail(ctx context.Context, userID uint, orderID string, isAdmin bool) (*Order, error) {
	order, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		return nil, ErrUnauthorized
	}

	return order, nil
}

// PaymentStatus returns the payment attached to an order, refreshed against
// the provider. Falls back to the stored row when the provider is
// unreachable, so the webhook stays the source of truth for settlement.
func (s *service) PaymentStatus(ctx context.Context, userID uint, orderID string, isAdmin bool) (*payment.Payment, error) {
	order, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrUnauthorized
	}

	p, err := s.paymentRepo.GetPaymentByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PaymentStatus"),
		zap.String("order_id", orderID),
	)

	st, err := s.paymentGate.GetPaymentStatus(ctx, p.ExternalID)
	if err != nil {
		log.Warn("provider status check failed, returning stored payment", zap.Error(err))
		return p, nil
	}

	if st.Status != p.Status {
		if err := s.paymentRepo.UpdateStatusByExternalID(ctx, p.ExternalID, st.Status); err != nil {
			log.Error("failed to refresh payment status", zap.Error(err))
			return nil, err
		}
		p.Status = st.Status
	}

	return p, nil
}

// MarkAsPaid settles an order after the provider confirms payment. Repeated
// webhook deliveries are no-ops once the order is paid. The cart empties only
// on this transition.
func (s *service) MarkAsPaid(ctx context.Context, invoiceNumber string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MarkAsPaid"),
		zap.String("invoice_number", invoiceNumber),
	)

	order, err := s.repo.GetByInvoice(ctx, invoiceNumber)
	if err != nil {
		return err
	}

	if order.Status == StatusPaid {
		log.Info("order already paid, skipping")
		return nil
	}

	if err := s.repo.UpdateStatusByInvoice(ctx, invoiceNumber, StatusPaid); err != nil {
		return err
	}

	if err := s.repo.ClearCartForUser(ctx, order.UserID); err != nil {
		log.Error("failed to clear cart after payment", zap.Error(err))
		return err
	}

	log.Info("order marked as paid", zap.String("order_id", order.ID))

	return nil
}

func (s *service) MarkAsFailed(ctx context.Context, invoiceNumber string) error {
	order, err := s.repo.GetByInvoice(ctx, invoiceNumber)
	if err != nil {
		return err
	}

	if order.Status == StatusFailed {
		return nil
	}

	return s.repo.UpdateStatusByInvoice(ctx, invoiceNumber, StatusFailed)
}
