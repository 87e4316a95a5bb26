// Package persistence provides standardized error types for storage
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrCaseNotFound indicates a case was not found by the given identifier.
	ErrCaseNotFound = errors.New("case not found")

	// ErrRuleNotFound indicates a rule row was not found by the given identifier.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrStaleWrite indicates a case update lost an optimistic concurrency
	// check on last_modified.
	ErrStaleWrite = errors.New("stale case write")
)

// StoreError wraps storage errors with operation context.
type StoreError struct {
	Op  string // Operation being performed (e.g., "ReadCase", "SaveRow")
	ID  string // Record identifier if applicable
	Err error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoreError creates a new storage error with context.
func NewStoreError(op, id string, err error) *StoreError {
	return &StoreError{Op: op, ID: id, Err: err}
}

// IsCaseNotFound checks if an error indicates a missing case.
func IsCaseNotFound(err error) bool {
	return errors.Is(err, ErrCaseNotFound)
}

// IsRuleNotFound checks if an error indicates a missing rule row.
func IsRuleNotFound(err error) bool {
	return errors.Is(err, ErrRuleNotFound)
}
