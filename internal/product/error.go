package product

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidPrice = errors.New("price must be greater than zero")
	ErrMissingName  = errors.New("product name is required")

	// -- Resource State --
	ErrProductNotFound = errors.New("product not found")
	ErrProductArchived = errors.New("product is archived")

	// -- Database & Operation Failures --
	ErrFailedCreateProduct = errors.New("failed to create product")
	ErrFailedUpdateProduct = errors.New("failed to update product")
)
