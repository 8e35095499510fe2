package inventory

import "errors"

var (
	ErrNotFound          = errors.New("product not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidName       = errors.New("invalid product name")
)
