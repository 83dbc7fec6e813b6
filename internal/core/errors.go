package core

import "errors"

// Validation errors block the requested action before any state change and
// are surfaced to the caller as user input errors. Service errors (pgx,
// network) are wrapped with %w and reported as internal failures instead.
var (
	ErrNotFound            = errors.New("not found")
	ErrQuantityNotPositive = errors.New("quantity must be positive")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrMissingField        = errors.New("missing required field")
	ErrInvalidRange        = errors.New("invalid date range")
)

// IsValidation reports whether err is a user input error rather than a
// service failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrQuantityNotPositive) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidRange)
}
