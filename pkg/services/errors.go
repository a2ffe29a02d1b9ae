// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
)

// Business logic errors indicating client mistakes (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrWorkflowNil     = errors.New("workflow cannot be nil")
	ErrWorkflowInvalid = errors.New("invalid workflow")
	ErrGraphMissing    = errors.New("workflow must carry a graph")
	ErrGraphCyclic     = errors.New("workflow graph contains a cycle")

	// Conflicts (409 Conflict).
	ErrTriggerConflict = errors.New("another enabled workflow is bound to this trigger")
)

// IsValidationError checks whether the error should map to a 400 response.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrWorkflowInvalid) ||
		errors.Is(err, ErrGraphMissing) ||
		errors.Is(err, ErrGraphCyclic)
}

// IsConflictError checks whether the error should map to a 409 response.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrTriggerConflict)
}
