package delivery

import "errors"

var (
	// ErrNotFound is returned when a communication log does not exist or
	// belongs to a different owner.
	ErrNotFound = errors.New("communication log not found")

	// ErrInvalidStatus is returned when a receipt carries a status
	// outside SENT/FAILED/PENDING.
	ErrInvalidStatus = errors.New("invalid delivery status")
)
