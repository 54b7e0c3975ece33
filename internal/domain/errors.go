package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by ledger operations. Business-rule rejections
// are expected outcomes; callers classify them with errors.Is.
var (
	ErrNotFound               = errors.New("ledger: not found")
	ErrInvalidInput           = errors.New("ledger: invalid input")
	ErrDuplicateName          = errors.New("ledger: duplicate name")
	ErrInsufficientStock      = errors.New("ledger: insufficient stock")
	ErrInvalidStateTransition = errors.New("ledger: invalid state transition")
	ErrReferentialBlock       = errors.New("ledger: referenced by active rentals")
	ErrPersistence            = errors.New("ledger: persistence failed")
	ErrInconsistentSnapshot   = errors.New("ledger: inconsistent snapshot")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("ledger: validation failed for %s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBusinessRule returns true if the error is a rejected business rule
// rather than bad input or an infrastructure failure.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidStateTransition) ||
		errors.Is(err, ErrReferentialBlock)
}
