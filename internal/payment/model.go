package payment

import "time"

type Payment struct {
	ID            uint
	OrderID       string
	ExternalID    string
	InvoiceURL    string
	Amount        float64
	Status        string
	PaymentMethod string
	BookingRef    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type BuyerInfo struct {
	Name  string
	Email string
	Phone string
}

type InvoiceResponse struct {
	ExternalID     string  `json:"external_id"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	InvoiceURL     string  `json:"invoice_url,omitempty"`
	ExpirationTime string  `json:"expires_at,omitempty"`
}

type PaymentStatus struct {
	Status string
	PaidAt *time.Time
}
