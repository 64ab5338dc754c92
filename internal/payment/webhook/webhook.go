package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"maison-be/internal/booking"
	"maison-be/internal/logger"
	"maison-be/internal/order"
	"maison-be/internal/payment"

	"go.uber.org/zap"
)

// WebhookPayload is the JSON the payment provider sends on status changes.
// BookingRef is set when the invoice was opened as a deposit for a booking
// group.
type WebhookPayload struct {
	ID         string  `json:"id"`
	ExternalID string  `json:"external_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	BookingRef string  `json:"booking_ref,omitempty"`
	PaidAt     string  `json:"paid_at,omitempty"`
}

type Handler struct {
	OrderSvc   order.Service
	BookingSvc booking.Service
	Gateway    payment.Gateway
}

func NewWebhookHandler(orderSvc order.Service, bookingSvc booking.Service, gateway payment.Gateway) *Handler {
	return &Handler{
		OrderSvc:   orderSvc,
		BookingSvc: bookingSvc,
		Gateway:    gateway,
	}
}

func (h *Handler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context()).With(zap.String("handler", "payment_webhook"))

	if err := h.Gateway.VerifySignature(r); err != nil {
		log.Warn("invalid webhook signature", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	log = log.With(
		zap.String("external_id", payload.ExternalID),
		zap.String("status", payload.Status),
	)
	log.Info("webhook received")

	switch payload.Status {
	case "PAID":
		err = h.OrderSvc.MarkAsPaid(r.Context(), payload.ExternalID)
		if err == nil && payload.BookingRef != "" {
			var confirmed int64
			confirmed, err = h.BookingSvc.ConfirmByRef(r.Context(), payload.BookingRef)
			log.Info("deposit received, booking group confirmed",
				zap.String("booking_ref", payload.BookingRef),
				zap.Int64("confirmed", confirmed),
			)
		}
	case "EXPIRED", "FAILED":
		err = h.OrderSvc.MarkAsFailed(r.Context(), payload.ExternalID)
	default:
		w.WriteHeader(http.StatusOK)
		return
	}

	if err != nil {
		log.Error("failed to apply webhook", zap.Error(err))
		http.Error(w, "failed to update order", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}
