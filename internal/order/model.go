package order

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusFailed    OrderStatus = "FAILED"
	StatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID            string
	UserID        uint
	InvoiceNumber string
	Total         float64
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItem
}

// OrderItem is a copy of the cart line at checkout time. PriceAtTime comes
// from the cart snapshot, not the live product price.
type OrderItem struct {
	ID           string
	OrderID      string
	ProductID    string
	ProductName  string
	Quantity     int
	PriceAtTime  float64
	ColorVariant *string
}
