package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const refAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateBookingRef returns a short random alphanumeric token shared by all
// bookings created from one submission.
func GenerateBookingRef() string {
	buf := make([]byte, 8)
	max := big.NewInt(int64(len(refAlphabet)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback: time-based entropy
			buf[i] = refAlphabet[time.Now().UnixNano()%int64(len(refAlphabet))]
			continue
		}
		buf[i] = refAlphabet[n.Int64()]
	}

	return string(buf)
}

// GenerateInvoiceNumber returns the order reference used as the payment
// external id.
func GenerateInvoiceNumber() string {
	now := time.Now().UTC()

	datePart := now.Format("20060102-150405")
	millis := now.Nanosecond() / int(time.Millisecond)

	// 4-digit cryptographic random
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf(
		"INV-%s-%03d-%04d",
		datePart,
		millis,
		n.Int64(),
	)
}
