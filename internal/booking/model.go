package booking

import (
	"time"

	"maison-be/internal/salonservice"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID              string
	BookingRef      string
	UserID          uint
	ServiceID       string
	BookingTime     time.Time
	Status          BookingStatus
	SpecialRequests *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PendingSlot is a client-side reservation that has not been submitted yet.
// TempID only identifies the slot within the builder; the server assigns the
// real booking id on insert.
type PendingSlot struct {
	TempID          string
	Service         *salonservice.SalonService
	Date            time.Time
	TimeLabel       string
	SpecialRequests string
}

type ContactDetails struct {
	Name  string
	Email string
	Phone string
}

func (c ContactDetails) Complete() bool {
	return c.Name != "" && c.Email != "" && c.Phone != ""
}

type CreateBookingParams struct {
	BookingRef      string
	UserID          uint
	ServiceID       string
	BookingTime     time.Time
	SpecialRequests *string
}

type SubmissionOutcome int

const (
	AllSucceeded SubmissionOutcome = iota
	PartialSuccess
	AllFailed
)

func (o SubmissionOutcome) String() string {
	switch o {
	case AllSucceeded:
		return "all_succeeded"
	case PartialSuccess:
		return "partial_success"
	case AllFailed:
		return "all_failed"
	default:
		return "unknown"
	}
}

// SlotFailure records which pending slot could not be booked and why, so the
// caller can keep it in the list for retry.
type SlotFailure struct {
	TempID string
	Err    error
}

type SubmissionResult struct {
	Outcome    SubmissionOutcome
	BookingRef string
	CreatedIDs []string
	Failures   []SlotFailure
}

// LastCreatedID returns the most recently created booking id, used to anchor
// the deposit prompt after a fully successful batch. Empty when nothing was
// created.
func (r SubmissionResult) LastCreatedID() string {
	if len(r.CreatedIDs) == 0 {
		return ""
	}
	return r.CreatedIDs[len(r.CreatedIDs)-1]
}
