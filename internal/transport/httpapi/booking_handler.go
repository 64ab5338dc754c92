package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"maison-be/internal/booking"
	"maison-be/internal/salonservice"
	"maison-be/internal/utils"
)

type BookingHandler struct {
	svc        booking.Service
	serviceSvc salonservice.Repository
	loc        *time.Location
}

func NewBookingHandler(svc booking.Service, serviceRepo salonservice.Repository, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BookingHandler{svc: svc, serviceSvc: serviceRepo, loc: loc}
}

// BookedTimes answers GET /api/bookings/booked-times?date=2026-09-03 with the
// taken display labels for that day.
func (h *BookingHandler) BookedTimes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		utils.WriteJSONError(w, "date query parameter is required", http.StatusBadRequest)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", raw, h.loc)
	if err != nil {
		utils.WriteJSONError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	taken, err := h.svc.GetBookedTimes(r.Context(), date)
	if err != nil {
		utils.WriteJSONError(w, "failed to load availability", http.StatusInternalServerError)
		return
	}

	labels := make([]string, 0, len(taken))
	for label := range taken {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"date":         raw,
		"booked_times": labels,
	})
}

type submitSlotRequest struct {
	TempID          string `json:"temp_id"`
	ServiceID       string `json:"service_id"`
	Date            string `json:"date"`
	TimeLabel       string `json:"time"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type submitRequest struct {
	Slots []submitSlotRequest `json:"slots"`
}

type submitFailureResponse struct {
	TempID string `json:"temp_id"`
	Error  string `json:"error"`
}

type submitResponse struct {
	Outcome       string                  `json:"outcome"`
	BookingRef    string                  `json:"booking_ref"`
	CreatedIDs    []string                `json:"created_ids"`
	LastCreatedID string                  `json:"last_created_id,omitempty"`
	Failures      []submitFailureResponse `json:"failures,omitempty"`
}

// Submit books the whole pending batch under one shared ref. Partial failure
// is reported per slot so the client keeps those slots for retry.
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	slots := make([]booking.PendingSlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		date, err := time.ParseInLocation("2006-01-02", s.Date, h.loc)
		if err != nil {
			utils.WriteJSONError(w, "slot date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		svc, err := h.serviceSvc.GetByID(r.Context(), s.ServiceID)
		if err != nil {
			utils.WriteJSONError(w, "failed to load service", http.StatusInternalServerError)
			return
		}
		if svc == nil || !svc.Active {
			utils.WriteJSONError(w, "unknown service", http.StatusBadRequest)
			return
		}

		slots = append(slots, booking.PendingSlot{
			TempID:          s.TempID,
			Service:         svc,
			Date:            date,
			TimeLabel:       s.TimeLabel,
			SpecialRequests: s.SpecialRequests,
		})
	}

	result, err := h.svc.Submit(r.Context(), userID, slots)
	if err != nil {
		if errors.Is(err, booking.ErrNoPendingSlots) {
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.WriteJSONError(w, "failed to submit bookings", http.StatusInternalServerError)
		return
	}

	resp := submitResponse{
		Outcome:       result.Outcome.String(),
		BookingRef:    result.BookingRef,
		CreatedIDs:    result.CreatedIDs,
		LastCreatedID: result.LastCreatedID(),
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, submitFailureResponse{
			TempID: f.TempID,
			Error:  f.Err.Error(),
		})
	}

	status := http.StatusCreated
	if result.Outcome != booking.AllSucceeded {
		status = http.StatusMultiStatus
	}

	utils.WriteJSON(w, status, resp)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.svc.CancelBooking(r.Context(), id, userID); err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to cancel booking", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *BookingHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	b, err := h.svc.GetBookingByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to load booking", http.StatusInternalServerError)
		return
	}

	if b.UserID != userID && utils.GetUserRoleFromContext(r.Context()) != "ADMIN" {
		utils.WriteJSONError(w, "unauthorized", http.StatusForbidden)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"id":           b.ID,
		"booking_ref":  b.BookingRef,
		"service_id":   b.ServiceID,
		"booking_time": b.BookingTime.In(h.loc).Format(time.RFC3339),
		"time":         booking.FormatTimeLabel(b.BookingTime.In(h.loc).Hour(), b.BookingTime.In(h.loc).Minute()),
		"status":       string(b.Status),
	})
}
