package tool

import "errors"

var (
	ErrOrderIDRequired   = errors.New("order_id required")
	ErrUnitPriceMissing  = errors.New("unit price not found")
	ErrUnitPriceInvalid  = errors.New("unit price must be a number")
	ErrQuantityInvalid   = errors.New("quantity must be an integer")
	ErrQuantityTooSmall  = errors.New("quantity must be ≥ 1")
	ErrUnitPriceNegative = errors.New("unit price cannot be negative")
)
