package customer

import "errors"

var (
	ErrNotFound     = errors.New("customer not found")
	ErrMissingField = errors.New("missing required field")
	ErrDuplicate    = errors.New("customer already exists")
	ErrInvalidEmail = errors.New("invalid email address")
)
