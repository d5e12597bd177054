package core

import (
	"errors"
	"fmt"
)

// Error taxonomy. Validation failures abort the operation with no partial
// state change; storage failures are wrapped so callers can branch on the
// sentinel with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrStorage            = errors.New("storage error")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotFound           = errors.New("record not found")

	ErrEmptyNote       = fmt.Errorf("%w: note must not be empty", ErrValidation)
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrMissingDate     = fmt.Errorf("%w: date is required", ErrValidation)
	ErrMissingCategory = fmt.Errorf("%w: category is required", ErrValidation)

	ErrMissingSymbol   = fmt.Errorf("%w: ticker symbol is required", ErrValidation)
	ErrMissingProperty = fmt.Errorf("%w: property name is required", ErrValidation)

	ErrSessionRunning    = fmt.Errorf("%w: a work session is already running", ErrValidation)
	ErrSessionNotRunning = errors.New("no work session is running")
	ErrFinishBeforeStart = fmt.Errorf("%w: finish must be after start", ErrValidation)
)
