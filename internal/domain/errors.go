package domain

import (
	"errors"
	"fmt"
)

var (
	// Canonical transaction errors
	ErrUnknownKind         = errors.New("unknown transaction kind")
	ErrMissingExternalID   = errors.New("transaction has no external id")
	ErrInvalidCurrency     = errors.New("invalid currency code")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrMissingCounterparty = errors.New("transaction has no counterparty")

	// Configuration errors
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// Phase names the read-only stage a fatal error occurred in. Fatal errors
// always abort before any mutation.
type Phase string

const (
	PhaseConfig   Phase = "config"
	PhaseExtract  Phase = "extract"
	PhaseSnapshot Phase = "snapshot"
)

// FatalError aborts the entire run. It only ever wraps failures from the
// read-only phases, so aborting is always safe.
type FatalError struct {
	Phase Phase
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps err as a fatal error for the given phase. Returns nil for a nil
// err.
func Fatal(phase Phase, err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Phase: phase, Err: err}
}

// OperationError is a failure returned by the target ledger client for a
// single operation. Retryable failures (rate limits, transient network or
// server errors) are backoff-retried by the executor; non-retryable ones
// (validation, auth, duplicates) fail the operation immediately.
type OperationError struct {
	StatusCode int
	Message    string
	Retryable  bool
	Err        error
}

func (e *OperationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("target api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("target api error (status %d): %v", e.StatusCode, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a retryable operation error.
func IsRetryable(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe) && oe.Retryable
}
