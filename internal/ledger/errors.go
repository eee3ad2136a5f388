package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when an operation names a person who is not on the roster.
	ErrNotFound = errors.New("person not found")

	// ErrPendingBalance is returned when removing a person who is not settled.
	ErrPendingBalance = errors.New("person has a pending balance")
)

// ValidationError describes why an expense or an input value was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PendingBalanceError carries the balance that blocked a removal.
type PendingBalanceError struct {
	Name string
	Net  decimal.Decimal
}

func (e *PendingBalanceError) Error() string {
	return fmt.Sprintf("%s has pending settlements (net %s) that need to be cleared first", e.Name, e.Net.StringFixed(2))
}

func (e *PendingBalanceError) Unwrap() error {
	return ErrPendingBalance
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}
