package wholesale

import "errors"

var (
	ErrProductNotFound   = errors.New("wholesale product not found")
	ErrNotOwner          = errors.New("not the owner of this resource")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrBelowMinQuantity  = errors.New("quantity below minimum order quantity")
	ErrOrderNotFound     = errors.New("wholesale order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("illegal status transition")
)
