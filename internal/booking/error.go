package booking

import "errors"

var (
	ErrDateNotSelected     = errors.New("please select a date")
	ErrServiceNotSelected  = errors.New("please select a service")
	ErrTimeNotSelected     = errors.New("please select a time")
	ErrContactIncomplete   = errors.New("please complete your contact details")
	ErrSlotTaken           = errors.New("that time slot is already booked")
	ErrSlotPending         = errors.New("that time slot is already in your pending list")
	ErrNoPendingSlots      = errors.New("no pending slots to submit")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrFailedCreateBooking = errors.New("failed to create booking")
)
