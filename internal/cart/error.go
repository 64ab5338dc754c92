package cart

import "errors"

var (
	// -- Authentication/Authorization --
	ErrUserNotAuthenticated = errors.New("user not authenticated")

	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")

	// -- Resource State --
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")

	// -- Merge state machine --
	ErrMergeAlreadyHandled = errors.New("cart merge already attempted this session")
	ErrMergeInFlight       = errors.New("cart merge in flight")

	// -- Database & Operation Failures --
	ErrFailedGetCartRows    = errors.New("failed to get cart rows")
	ErrFailedCreateCartItem = errors.New("failed to create cart item")
	ErrFailedUpdateCart     = errors.New("failed to update cart item")
	ErrFailedRemoveCart     = errors.New("failed to remove cart item")
	ErrFailedClearCart      = errors.New("failed to clear cart")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
