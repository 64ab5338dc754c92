package booking

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"maison-be/internal/salonservice"
)

// RequestBuilder accumulates pending slots for one batched submission. The
// staged selection (service, date, time) is validated on AddSlot and only
// becomes a PendingSlot once it passes; a pending slot is never edited in
// place, only removed and re-added.
type RequestBuilder struct {
	mu sync.Mutex

	service         *salonservice.SalonService
	date            time.Time
	timeLabel       string
	specialRequests string
	contact         ContactDetails

	pending []PendingSlot
}

func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

func (b *RequestBuilder) SelectService(s *salonservice.SalonService) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.service = s
}

func (b *RequestBuilder) SelectDate(date time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.date = date
}

func (b *RequestBuilder) SelectTime(label string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timeLabel = label
}

func (b *RequestBuilder) SetSpecialRequests(notes string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.specialRequests = notes
}

func (b *RequestBuilder) SetContact(c ContactDetails) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contact = c
}

func (b *RequestBuilder) Contact() ContactDetails {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.contact
}

// AddSlot validates the staged selection against the server's booked set for
// the selected date and against slots already pending locally. On success the
// slot joins the pending list under a temporary id and the staged time and
// notes are cleared for the next pick.
func (b *RequestBuilder) AddSlot(booked map[string]struct{}) (PendingSlot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.date.IsZero() {
		return PendingSlot{}, ErrDateNotSelected
	}
	if b.service == nil {
		return PendingSlot{}, ErrServiceNotSelected
	}
	if b.timeLabel == "" {
		return PendingSlot{}, ErrTimeNotSelected
	}
	if !b.contact.Complete() {
		return PendingSlot{}, ErrContactIncomplete
	}
	if _, taken := booked[b.timeLabel]; taken {
		return PendingSlot{}, ErrSlotTaken
	}
	for _, slot := range b.pending {
		if sameDay(slot.Date, b.date) && slot.TimeLabel == b.timeLabel {
			return PendingSlot{}, ErrSlotPending
		}
	}

	slot := PendingSlot{
		TempID:          uuid.NewString(),
		Service:         b.service,
		Date:            b.date,
		TimeLabel:       b.timeLabel,
		SpecialRequests: b.specialRequests,
	}
	b.pending = append(b.pending, slot)

	b.timeLabel = ""
	b.specialRequests = ""

	return slot, nil
}

func (b *RequestBuilder) RemoveSlot(tempID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, slot := range b.pending {
		if slot.TempID == tempID {
			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			return
		}
	}
}

// Pending returns a snapshot of the current pending list.
func (b *RequestBuilder) Pending() []PendingSlot {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]PendingSlot, len(b.pending))
	copy(out, b.pending)
	return out
}

// Total recomputes the batch price from the pending list on every call rather
// than keeping a running figure that could drift.
func (b *RequestBuilder) Total() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total float64
	for _, slot := range b.pending {
		if slot.Service != nil {
			total += slot.Service.Price
		}
	}
	return total
}

// Settle removes the slots that were created server-side and keeps failed
// ones in place for retry.
func (b *RequestBuilder) Settle(result SubmissionResult, submitted []PendingSlot) {
	failed := map[string]struct{}{}
	for _, f := range result.Failures {
		failed[f.TempID] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.pending[:0]
	for _, slot := range b.pending {
		if _, keep := failed[slot.TempID]; keep || !containsSlot(submitted, slot.TempID) {
			kept = append(kept, slot)
		}
	}
	b.pending = kept
}

func containsSlot(slots []PendingSlot, tempID string) bool {
	for _, s := range slots {
		if s.TempID == tempID {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
