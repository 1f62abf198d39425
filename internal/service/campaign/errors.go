package campaign

import "errors"

var (
	// ErrNotFound is returned when a campaign does not exist or belongs
	// to a different owner.
	ErrNotFound = errors.New("campaign not found")

	// ErrMissingField is returned when a create request lacks a required
	// field.
	ErrMissingField = errors.New("missing required field")
)
