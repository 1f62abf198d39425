package order

import "errors"

var (
	ErrCustomerNotFound = errors.New("order customer not found")
	ErrInvalidAmount    = errors.New("order amount must be positive")
)
