package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"maison-be/internal/booking"
	"maison-be/internal/cart"
	"maison-be/internal/salonservice"
	"maison-be/internal/utils"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddToCart(ctx context.Context, params cart.AddToCartParams) (*cart.Item, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Item), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, userID uint) ([]*cart.CartRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.CartRow), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, params cart.UpdateQuantityParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockCartService) RemoveFromCart(ctx context.Context, params cart.RemoveParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockCartService) CountItems(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) GetBookedTimes(ctx context.Context, date time.Time) (map[string]struct{}, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockBookingService) Submit(ctx context.Context, userID uint, slots []booking.PendingSlot) (booking.SubmissionResult, error) {
	args := m.Called(ctx, userID, slots)
	return args.Get(0).(booking.SubmissionResult), args.Error(1)
}

func (m *MockBookingService) GetBookingByID(ctx context.Context, id string) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, id string, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockBookingService) ConfirmByRef(ctx context.Context, bookingRef string) (int64, error) {
	args := m.Called(ctx, bookingRef)
	return args.Get(0).(int64), args.Error(1)
}

type MockServiceRepo struct {
	mock.Mock
}

func (m *MockServiceRepo) GetByID(ctx context.Context, serviceID string) (*salonservice.SalonService, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salonservice.SalonService), args.Error(1)
}

func (m *MockServiceRepo) GetActive(ctx context.Context) ([]*salonservice.SalonService, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*salonservice.SalonService), args.Error(1)
}

func (m *MockServiceRepo) Create(ctx context.Context, svc *salonservice.SalonService) (*salonservice.SalonService, error) {
	args := m.Called(ctx, svc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salonservice.SalonService), args.Error(1)
}

func (m *MockServiceRepo) SetActive(ctx context.Context, serviceID string, active bool) error {
	args := m.Called(ctx, serviceID, active)
	return args.Error(0)
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := utils.SetUserContext(req.Context(), 1, "ana@example.com", "USER")
	return req.WithContext(ctx)
}

func TestCartHandler_Add(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockCartService)
		h := NewCartHandler(svc, nil)

		svc.On("AddToCart", mock.Anything, cart.AddToCartParams{
			UserID:    1,
			ProductID: "p1",
			Quantity:  2,
		}).Return(&cart.Item{ID: "item-1", Quantity: 2, PriceAtTime: 89.0}, nil)

		rec := httptest.NewRecorder()
		h.Add(rec, authedRequest(http.MethodPost, "/api/cart", `{"product_id":"p1","quantity":2}`))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "item-1", resp["item_id"])
		assert.Equal(t, 89.0, resp["price_at_time"])
	})

	t.Run("Anonymous rejected", func(t *testing.T) {
		h := NewCartHandler(new(MockCartService), nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{}`))
		h.Add(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Out of stock", func(t *testing.T) {
		svc := new(MockCartService)
		h := NewCartHandler(svc, nil)

		svc.On("AddToCart", mock.Anything, mock.AnythingOfType("cart.AddToCartParams")).
			Return(nil, cart.ErrInsufficientStock)

		rec := httptest.NewRecorder()
		h.Add(rec, authedRequest(http.MethodPost, "/api/cart", `{"product_id":"p1","quantity":99}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCartHandler_Count(t *testing.T) {
	svc := new(MockCartService)
	h := NewCartHandler(svc, nil)

	svc.On("CountItems", mock.Anything, uint(1)).Return(int64(5), nil)

	rec := httptest.NewRecorder()
	h.Count(rec, authedRequest(http.MethodGet, "/api/cart/count", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":5}`, rec.Body.String())
}

func TestBookingHandler_BookedTimes(t *testing.T) {
	t.Run("Returns sorted labels", func(t *testing.T) {
		svc := new(MockBookingService)
		h := NewBookingHandler(svc, new(MockServiceRepo), time.UTC)

		date := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
		svc.On("GetBookedTimes", mock.Anything, date).
			Return(map[string]struct{}{"02:00 PM": {}, "10:00 AM": {}}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/booked-times?date=2026-09-03", nil)
		h.BookedTimes(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			BookedTimes []string `json:"booked_times"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"02:00 PM", "10:00 AM"}, resp.BookedTimes)
	})

	t.Run("Empty day returns empty list", func(t *testing.T) {
		svc := new(MockBookingService)
		h := NewBookingHandler(svc, new(MockServiceRepo), time.UTC)

		svc.On("GetBookedTimes", mock.Anything, mock.Anything).
			Return(map[string]struct{}{}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/booked-times?date=2026-09-03", nil)
		h.BookedTimes(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"booked_times":[]`)
	})

	t.Run("Missing date rejected", func(t *testing.T) {
		h := NewBookingHandler(new(MockBookingService), new(MockServiceRepo), time.UTC)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/booked-times", nil)
		h.BookedTimes(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Bad date format rejected", func(t *testing.T) {
		h := NewBookingHandler(new(MockBookingService), new(MockServiceRepo), time.UTC)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/booked-times?date=03-09-2026", nil)
		h.BookedTimes(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookingHandler_Submit(t *testing.T) {
	body := `{"slots":[{"temp_id":"tmp-1","service_id":"svc-1","date":"2026-09-03","time":"02:00 PM"}]}`

	t.Run("All succeeded returns 201", func(t *testing.T) {
		svc := new(MockBookingService)
		serviceRepo := new(MockServiceRepo)
		h := NewBookingHandler(svc, serviceRepo, time.UTC)

		serviceRepo.On("GetByID", mock.Anything, "svc-1").
			Return(&salonservice.SalonService{ID: "svc-1", Name: "Signature Facial", Price: 150, Active: true}, nil)
		svc.On("Submit", mock.Anything, uint(1), mock.AnythingOfType("[]booking.PendingSlot")).
			Return(booking.SubmissionResult{
				Outcome:    booking.AllSucceeded,
				BookingRef: "AB12CD34",
				CreatedIDs: []string{"bk-1"},
			}, nil)

		rec := httptest.NewRecorder()
		h.Submit(rec, authedRequest(http.MethodPost, "/api/bookings", body))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp submitResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "all_succeeded", resp.Outcome)
		assert.Equal(t, "AB12CD34", resp.BookingRef)
		assert.Equal(t, "bk-1", resp.LastCreatedID)
	})

	t.Run("Partial failure returns 207 with per-slot errors", func(t *testing.T) {
		svc := new(MockBookingService)
		serviceRepo := new(MockServiceRepo)
		h := NewBookingHandler(svc, serviceRepo, time.UTC)

		serviceRepo.On("GetByID", mock.Anything, "svc-1").
			Return(&salonservice.SalonService{ID: "svc-1", Active: true}, nil)
		svc.On("Submit", mock.Anything, uint(1), mock.Anything).
			Return(booking.SubmissionResult{
				Outcome:    booking.PartialSuccess,
				BookingRef: "AB12CD34",
				CreatedIDs: []string{"bk-1"},
				Failures:   []booking.SlotFailure{{TempID: "tmp-2", Err: errors.New("db error")}},
			}, nil)

		rec := httptest.NewRecorder()
		h.Submit(rec, authedRequest(http.MethodPost, "/api/bookings", body))

		assert.Equal(t, http.StatusMultiStatus, rec.Code)

		var resp submitResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "partial_success", resp.Outcome)
		require.Len(t, resp.Failures, 1)
		assert.Equal(t, "tmp-2", resp.Failures[0].TempID)
	})

	t.Run("Unknown service rejected", func(t *testing.T) {
		serviceRepo := new(MockServiceRepo)
		h := NewBookingHandler(new(MockBookingService), serviceRepo, time.UTC)

		serviceRepo.On("GetByID", mock.Anything, "svc-1").Return(nil, nil)

		rec := httptest.NewRecorder()
		h.Submit(rec, authedRequest(http.MethodPost, "/api/bookings", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Empty batch rejected", func(t *testing.T) {
		svc := new(MockBookingService)
		h := NewBookingHandler(svc, new(MockServiceRepo), time.UTC)

		svc.On("Submit", mock.Anything, uint(1), mock.Anything).
			Return(booking.SubmissionResult{Outcome: booking.AllFailed}, booking.ErrNoPendingSlots)

		rec := httptest.NewRecorder()
		h.Submit(rec, authedRequest(http.MethodPost, "/api/bookings", `{"slots":[]}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookingHandler_Cancel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockBookingService)
		h := NewBookingHandler(svc, new(MockServiceRepo), time.UTC)

		svc.On("CancelBooking", mock.Anything, "bk-1", uint(1)).Return(nil)

		rec := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/bookings/bk-1/cancel", "")
		req.SetPathValue("id", "bk-1")
		h.Cancel(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing booking", func(t *testing.T) {
		svc := new(MockBookingService)
		h := NewBookingHandler(svc, new(MockServiceRepo), time.UTC)

		svc.On("CancelBooking", mock.Anything, "missing", uint(1)).
			Return(booking.ErrBookingNotFound)

		rec := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/bookings/missing/cancel", "")
		req.SetPathValue("id", "missing")
		h.Cancel(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
