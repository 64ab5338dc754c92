package order

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrPaymentNotFound = errors.New("no payment recorded for order")
)
