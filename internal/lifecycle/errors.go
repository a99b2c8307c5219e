package lifecycle

import (
	"errors"
	"fmt"
)

// ValidationError is a guard failure. It never triggers a side effect and is
// always recoverable by re-prompting the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validation(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a guard failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InsufficientFundsError blocks a payment-bearing transition before any
// capture call is attempted.
type InsufficientFundsError struct {
	Required  int64 // VND
	Available int64 // VND
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: need %d VND, have %d VND (short %d VND)",
		e.Required, e.Available, e.Shortfall())
}

func (e *InsufficientFundsError) Shortfall() int64 {
	return e.Required - e.Available
}

// IsInsufficientFunds reports whether err is (or wraps) a balance shortfall.
func IsInsufficientFunds(err error) bool {
	var fe *InsufficientFundsError
	return errors.As(err, &fe)
}
