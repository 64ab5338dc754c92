package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"maison-be/internal/booking"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FetchBookedTimes(ctx context.Context, date time.Time, loc *time.Location) (map[string]struct{}, error) {
	args := m.Called(ctx, date, loc)
	return nil, args.Error(1)
}

func (m *MockBookingRepository) CreateBooking(ctx context.Context, params booking.CreateBookingParams) (*booking.Booking, error) {
	args := m.Called(ctx, params)
	return nil, args.Error(1)
}

func (m *MockBookingRepository) GetBookingByID(ctx context.Context, id string) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}

func (m *MockBookingRepository) CancelBooking(ctx context.Context, id string, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockBookingRepository) ConfirmByRef(ctx context.Context, bookingRef string) (int64, error) {
	args := m.Called(ctx, bookingRef)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestSweeper_Sweep(t *testing.T) {
	t.Run("Cutoff honors max age", func(t *testing.T) {
		mockRepo := new(MockBookingRepository)
		s := NewSweeper(mockRepo, 6*time.Hour)

		mockRepo.On("ExpireStalePending", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
			expected := time.Now().Add(-6 * time.Hour)
			return cutoff.Sub(expected).Abs() < time.Minute
		})).Return(int64(2), nil)

		s.Sweep()

		mockRepo.AssertExpectations(t)
	})

	t.Run("Repository error is swallowed", func(t *testing.T) {
		mockRepo := new(MockBookingRepository)
		s := NewSweeper(mockRepo, time.Hour)

		mockRepo.On("ExpireStalePending", mock.Anything, mock.Anything).
			Return(int64(0), errors.New("db error"))

		assert.NotPanics(t, s.Sweep)
	})
}

func TestNewSweeper_DefaultMaxAge(t *testing.T) {
	s := NewSweeper(new(MockBookingRepository), 0)
	assert.Equal(t, 12*time.Hour, s.maxAge)
}

func TestSweeper_Start(t *testing.T) {
	mockRepo := new(MockBookingRepository)
	s := NewSweeper(mockRepo, time.Hour)

	mockRepo.On("ExpireStalePending", mock.Anything, mock.Anything).
		Return(int64(0), nil)

	t.Run("Invalid schedule rejected", func(t *testing.T) {
		assert.Error(t, s.Start("not a schedule"))
	})

	t.Run("Valid schedule runs an immediate pass", func(t *testing.T) {
		assert.NoError(t, s.Start("@hourly"))
		defer s.Stop()

		mockRepo.AssertCalled(t, "ExpireStalePending", mock.Anything, mock.Anything)
	})
}
