package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"maison-be/internal/order"
	"maison-be/internal/payment"
	"maison-be/internal/utils"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type checkoutRequest struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	BookingRef *string `json:"booking_ref,omitempty"`
}

// Checkout turns the active cart into a pending order and opens an invoice.
// When booking_ref is present the invoice doubles as the deposit for that
// booking group.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	buyer := payment.BuyerInfo{
		Name:  req.Name,
		Email: utils.GetUserEmailFromContext(r.Context()),
		Phone: req.Phone,
	}

	o, invoice, err := h.svc.CreateOrder(r.Context(), userID, buyer, req.BookingRef)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.WriteJSONError(w, "failed to create order", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"order_id":       o.ID,
		"invoice_number": o.InvoiceNumber,
		"total":          o.Total,
		"invoice_url":    invoice.InvoiceURL,
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.svc.GetOrders(r.Context(), userID)
	if err != nil {
		utils.WriteJSONError(w, "failed to load orders", http.StatusInternalServerError)
		return
	}

	type orderResponse struct {
		ID            string  `json:"id"`
		InvoiceNumber string  `json:"invoice_number"`
		Total         float64 `json:"total"`
		Status        string  `json:"status"`
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse{
			ID:            o.ID,
			InvoiceNumber: o.InvoiceNumber,
			Total:         o.Total,
			Status:        string(o.Status),
		})
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"orders": out})
}

// PaymentStatus lets the client poll where an invoice stands while waiting
// for the provider redirect or webhook to land.
func (h *OrderHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	isAdmin := utils.GetUserRoleFromContext(r.Context()) == "ADMIN"

	p, err := h.svc.PaymentStatus(r.Context(), userID, r.PathValue("id"), isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, order.ErrPaymentNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, order.ErrUnauthorized):
			utils.WriteJSONError(w, err.Error(), http.StatusForbidden)
		default:
			utils.WriteJSONError(w, "failed to load payment status", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"order_id":    p.OrderID,
		"status":      p.Status,
		"amount":      p.Amount,
		"invoice_url": p.InvoiceURL,
		"booking_ref": p.BookingRef,
	})
}

func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	isAdmin := utils.GetUserRoleFromContext(r.Context()) == "ADMIN"

	o, err := h.svc.GetOrderDetail(r.Context(), userID, r.PathValue("id"), isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, order.ErrUnauthorized):
			utils.WriteJSONError(w, err.Error(), http.StatusForbidden)
		default:
			utils.WriteJSONError(w, "failed to load order", http.StatusInternalServerError)
		}
		return
	}

	type itemResponse struct {
		ProductID    string  `json:"product_id"`
		ProductName  string  `json:"product_name"`
		Quantity     int     `json:"quantity"`
		PriceAtTime  float64 `json:"price_at_time"`
		ColorVariant *string `json:"color_variant,omitempty"`
	}

	items := make([]itemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, itemResponse{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PriceAtTime:  item.PriceAtTime,
			ColorVariant: item.ColorVariant,
		})
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"id":             o.ID,
		"invoice_number": o.InvoiceNumber,
		"total":          o.Total,
		"status":         string(o.Status),
		"items":          items,
	})
}
