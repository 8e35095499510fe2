package billing

import "errors"

var (
	ErrNotInCart       = errors.New("product not in cart")
	ErrInvalidDiscount = errors.New("invalid discount")
)
