package cart

import "time"

type CartStatus string

const (
	CartStatusActive  CartStatus = "active"
	CartStatusOrdered CartStatus = "ordered"
)

// Cart is the persisted server cart. One active cart per user by convention:
// it is created implicitly on the first add and survives across sessions.
type Cart struct {
	ID         string     `json:"id"`
	UserID     uint       `json:"user_id"`
	Status     CartStatus `json:"status"`
	TotalPrice float64    `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Item is a persisted cart line. PriceAtTime is captured at insert and never
// recalculated from the live product price.
type Item struct {
	ID           string    `json:"id"`
	CartID       string    `json:"cart_id"`
	ProductID    string    `json:"product_id"`
	Quantity     int       `json:"quantity"`
	PriceAtTime  float64   `json:"price_at_time"`
	ColorVariant *string   `json:"color_variant,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CartRow is the joined read model returned to the storefront.
type CartRow struct {
	ItemID       string
	CartID       string
	UserID       uint
	ProductID    string
	ProductName  string
	ProductImage *string
	LivePrice    float64
	PriceAtTime  float64
	Quantity     int
	ColorVariant *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AddToCartParams struct {
	UserID       uint
	ProductID    string
	Quantity     int
	ColorVariant *string
}

type UpdateQuantityParams struct {
	UserID       uint
	ProductID    string
	Quantity     int
	ColorVariant *string
}

type RemoveParams struct {
	UserID       uint
	ProductID    string
	ColorVariant *string
}

type CreateItemParams struct {
	CartID       string
	ProductID    string
	Quantity     int
	PriceAtTime  float64
	ColorVariant *string
}
