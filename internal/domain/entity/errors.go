package entity

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrCartItemNotFound   = errors.New("item not found in cart")
	ErrInvalidBulkPricing = errors.New("invalid bulk pricing")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrEmptyOrder         = errors.New("order has no items")
)
