package lifecycle

import (
	"errors"
	"fmt"

	"github.com/chris/crypto-investments/pkg/storage"
)

// Error kinds returned by the Service. Callers match them with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrPrecondition = errors.New("precondition failed")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrTransient    = errors.New("temporary failure, try again")
)

// ValidationError reports bad input detected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PreconditionError reports an operation that is not allowed in the
// record's current state. Current is the state actually found.
type PreconditionError struct {
	Operation string
	ID        string
	Current   string
	Reason    string
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("cannot %s %s: current status is %s", e.Operation, e.ID, e.Current)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// fromStore classifies a storage error. Anything the store does not mark as
// a missing record or insufficient funds is treated as transient.
func fromStore(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	case errors.Is(err, storage.ErrInsufficientFunds):
		return fmt.Errorf("%s: %w: %w", op, ErrPrecondition, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
	}
}
