package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBookingConflict is returned when a confirmed booking would overlap
	// another confirmed booking.
	ErrBookingConflict = errors.New("boat is not available for the selected dates")
)

// ValidationError reports input that breaks a field or domain rule. It never
// wraps a store error.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalidf builds a *ValidationError.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Field rule violations shared by the HTTP boundary and the services.
var (
	ErrBookingFieldsRequired = Invalidf("Person, start date, and end date are required")
	ErrInvertedRange         = Invalidf("Start date must be before or equal to end date")
	ErrItemFieldsRequired    = Invalidf("Name, quantity, and unit are required")
	ErrNegativeQuantity      = Invalidf("Quantity must not be negative")
	ErrLogFieldsRequired     = Invalidf("Title, content, and date are required")
)
