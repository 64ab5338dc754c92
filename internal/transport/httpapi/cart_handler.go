package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"maison-be/internal/cart"
	"maison-be/internal/offlinecart"
	"maison-be/internal/utils"
)

type CartHandler struct {
	svc    cart.Service
	merges *cart.MergeRegistry
}

func NewCartHandler(svc cart.Service, merges *cart.MergeRegistry) *CartHandler {
	return &CartHandler{svc: svc, merges: merges}
}

type cartLineRequest struct {
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"`
	ColorVariant *string `json:"color_variant,omitempty"`
}

type cartRowResponse struct {
	ItemID       string  `json:"item_id"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage *string `json:"product_image,omitempty"`
	LivePrice    float64 `json:"live_price"`
	PriceAtTime  float64 `json:"price_at_time"`
	Quantity     int     `json:"quantity"`
	ColorVariant *string `json:"color_variant,omitempty"`
}

func requireUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok || userID == 0 {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

func cartErrorStatus(err error) int {
	switch {
	case errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, cart.ErrCartItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInsufficientStock):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	rows, err := h.svc.GetCart(r.Context(), userID)
	if err != nil {
		utils.WriteJSONError(w, "failed to load cart", http.StatusInternalServerError)
		return
	}

	out := make([]cartRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, cartRowResponse{
			ItemID:       row.ItemID,
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			ProductImage: row.ProductImage,
			LivePrice:    row.LivePrice,
			PriceAtTime:  row.PriceAtTime,
			Quantity:     row.Quantity,
			ColorVariant: row.ColorVariant,
		})
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req cartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.svc.AddToCart(r.Context(), cart.AddToCartParams{
		UserID:       userID,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		ColorVariant: req.ColorVariant,
	})
	if err != nil {
		utils.WriteJSONError(w, err.Error(), cartErrorStatus(err))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"item_id":       item.ID,
		"quantity":      item.Quantity,
		"price_at_time": item.PriceAtTime,
	})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req cartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.svc.UpdateQuantity(r.Context(), cart.UpdateQuantityParams{
		UserID:       userID,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		ColorVariant: req.ColorVariant,
	})
	if err != nil {
		utils.WriteJSONError(w, err.Error(), cartErrorStatus(err))
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req cartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.svc.RemoveFromCart(r.Context(), cart.RemoveParams{
		UserID:       userID,
		ProductID:    req.ProductID,
		ColorVariant: req.ColorVariant,
	})
	if err != nil {
		utils.WriteJSONError(w, err.Error(), cartErrorStatus(err))
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	count, err := h.svc.CountItems(r.Context(), userID)
	if err != nil {
		utils.WriteJSONError(w, "failed to count cart items", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}

type mergeRequest struct {
	Lines []cartLineRequest `json:"lines"`
}

// Merge reconciles the offline lines the client held while signed out into
// the server cart. The per-session guard makes repeat posts no-ops.
func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	store := offlinecart.NewStore("")
	for _, line := range req.Lines {
		store.AddOrUpdate(line.ProductID, line.Quantity, utils.PtrString(line.ColorVariant))
	}

	result, err := h.merges.For(userID).Merge(r.Context(), userID, store)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrMergeAlreadyHandled), errors.Is(err, cart.ErrMergeInFlight):
			utils.WriteJSONError(w, err.Error(), http.StatusConflict)
		default:
			utils.WriteJSONError(w, "failed to merge cart, your items are kept", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}
