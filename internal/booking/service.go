package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"maison-be/internal/logger"
	"maison-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	GetBookedTimes(ctx context.Context, date time.Time) (map[string]struct{}, error)
	Submit(ctx context.Context, userID uint, slots []PendingSlot) (SubmissionResult, error)
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
	CancelBooking(ctx context.Context, id string, userID uint) error
	ConfirmByRef(ctx context.Context, bookingRef string) (int64, error)
}

type service struct {
	repo Repository
	loc  *time.Location

	cacheMu sync.Mutex
	cache   map[string]map[string]struct{}
}

func NewService(repo Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:  repo,
		loc:   loc,
		cache: map[string]map[string]struct{}{},
	}
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// GetBookedTimes serves availability for a calendar day, caching per date so
// repeated lookups while the customer browses do not hit the database.
func (s *service) GetBookedTimes(ctx context.Context, date time.Time) (map[string]struct{}, error) {
	key := dateKey(date)

	s.cacheMu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.cacheMu.Unlock()
		return cached, nil
	}
	s.cacheMu.Unlock()

	taken, err := s.repo.FetchBookedTimes(ctx, date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("fetch booked times: %w", err)
	}

	s.cacheMu.Lock()
	s.cache[key] = taken
	s.cacheMu.Unlock()

	return taken, nil
}

func (s *service) invalidateDate(date time.Time) {
	s.cacheMu.Lock()
	delete(s.cache, dateKey(date))
	s.cacheMu.Unlock()
}

// Submit books every pending slot under one shared group ref. Inserts run
// concurrently and are aggregated after all settle; a failed slot never rolls
// back its siblings, it just stays pending on the client for retry.
func (s *service) Submit(ctx context.Context, userID uint, slots []PendingSlot) (SubmissionResult, error) {
	if len(slots) == 0 {
		return SubmissionResult{Outcome: AllFailed}, ErrNoPendingSlots
	}

	ref := utils.GenerateBookingRef()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.String("booking_ref", ref),
		zap.Uint("user_id", userID),
		zap.Int("slots", len(slots)),
	)

	type slotResult struct {
		booking *Booking
		err     error
	}

	results := make([]slotResult, len(slots))

	var wg sync.WaitGroup
	for i, slot := range slots {
		wg.Add(1)
		go func(i int, slot PendingSlot) {
			defer wg.Done()
			b, err := s.bookSlot(ctx, ref, userID, slot)
			results[i] = slotResult{booking: b, err: err}
		}(i, slot)
	}
	wg.Wait()

	result := SubmissionResult{BookingRef: ref}
	for i, res := range results {
		if res.err != nil {
			result.Failures = append(result.Failures, SlotFailure{
				TempID: slots[i].TempID,
				Err:    res.err,
			})
			continue
		}
		result.CreatedIDs = append(result.CreatedIDs, res.booking.ID)
		s.invalidateDate(slots[i].Date)
	}

	switch {
	case len(result.Failures) == 0:
		result.Outcome = AllSucceeded
	case len(result.CreatedIDs) == 0:
		result.Outcome = AllFailed
	default:
		result.Outcome = PartialSuccess
	}

	log.Info("submission settled",
		zap.String("outcome", result.Outcome.String()),
		zap.Int("created", len(result.CreatedIDs)),
		zap.Int("failed", len(result.Failures)),
	)

	return result, nil
}

func (s *service) bookSlot(ctx context.Context, ref string, userID uint, slot PendingSlot) (*Booking, error) {
	if slot.Service == nil {
		return nil, ErrServiceNotSelected
	}

	hour, minute, err := ParseTimeLabel(slot.TimeLabel)
	if err != nil {
		return nil, err
	}

	at := time.Date(
		slot.Date.Year(), slot.Date.Month(), slot.Date.Day(),
		hour, minute, 0, 0, s.loc,
	)

	var notes *string
	if slot.SpecialRequests != "" {
		notes = &slot.SpecialRequests
	}

	b, err := s.repo.CreateBooking(ctx, CreateBookingParams{
		BookingRef:      ref,
		UserID:          userID,
		ServiceID:       slot.Service.ID,
		BookingTime:     at,
		SpecialRequests: notes,
	})
	if err != nil {
		return nil, ErrFailedCreateBooking
	}

	return b, nil
}

func (s *service) GetBookingByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetBookingByID(ctx, id)
}

func (s *service) CancelBooking(ctx context.Context, id string, userID uint) error {
	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.CancelBooking(ctx, id, userID); err != nil {
		return err
	}

	s.invalidateDate(b.BookingTime.In(s.loc))

	return nil
}

func (s *service) ConfirmByRef(ctx context.Context, bookingRef string) (int64, error) {
	return s.repo.ConfirmByRef(ctx, bookingRef)
}
