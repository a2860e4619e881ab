package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock available")
	ErrIncompleteSale    = errors.New("please fill in all fields and add at least one item")
	ErrEmailDelivery     = errors.New("email delivery failed")
)

// ValidationError carries a message meant for the person filling the form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(message string) error {
	return &ValidationError{Message: message}
}
