// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Lookup errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Store lifecycle errors.
	ErrNotReady = errors.New("store not hydrated yet")

	// Policy violations. The store refuses these and keeps its previous state.
	ErrDefaultCategory    = errors.New("default categories cannot be deleted")
	ErrCategoryInUse      = errors.New("category is used by existing expenses")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrNoPendingDeposit   = errors.New("no pending deposit")
	ErrDepositPending     = errors.New("another deposit is awaiting confirmation")
	ErrInvalidDestination = errors.New("invalid overflow destination")
	ErrDebtAlreadyPaid    = errors.New("debt already paid")

	// Validation errors.
	ErrValidation = errors.New("validation failed")

	// Chat errors.
	ErrMissingAPIKey = errors.New("missing chat API key")
	ErrEmptyReply    = errors.New("empty reply from chat provider")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsPolicyViolation reports whether err is a refused-but-well-formed operation.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrDefaultCategory) ||
		errors.Is(err, ErrCategoryInUse) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrNoPendingDeposit) ||
		errors.Is(err, ErrDepositPending) ||
		errors.Is(err, ErrInvalidDestination) ||
		errors.Is(err, ErrDebtAlreadyPaid)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
