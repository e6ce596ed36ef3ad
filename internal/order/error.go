package order

import "errors"

var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrProductGone       = errors.New("product no longer exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotOwner          = errors.New("order does not contain your products")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("illegal status transition")
)
