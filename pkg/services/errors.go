// Package services provides the business operations behind the admin API:
// rule management and execution history queries.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest      = errors.New("invalid request")
	ErrRuleNameRequired    = errors.New("rule name is required")
	ErrTriggerTypeRequired = errors.New("rule trigger type is required")
	ErrUnknownTriggerType  = errors.New("unknown trigger type")
	ErrActionsRequired     = errors.New("rule must define at least one action")
	ErrRuleNil             = errors.New("rule cannot be nil")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrRuleNameRequired) ||
		errors.Is(err, ErrTriggerTypeRequired) ||
		errors.Is(err, ErrUnknownTriggerType) ||
		errors.Is(err, ErrActionsRequired) ||
		errors.Is(err, ErrRuleNil)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
