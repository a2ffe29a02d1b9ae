// Package persistence provides standardized error types for storage operations.
package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkflowNotFound indicates no workflow matched the identifier or
	// trigger id.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrSettingNotFound indicates the admin setting key has no row.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTriggerAlreadyBound indicates another enabled workflow is already
	// bound to the same trigger id.
	ErrTriggerAlreadyBound = errors.New("trigger already bound to an enabled workflow")
)

// WorkflowError wraps workflow storage errors with operation context.
type WorkflowError struct {
	Op         string
	WorkflowID int
	TriggerID  string
	Err        error
}

func (e *WorkflowError) Error() string {
	if e.TriggerID != "" {
		return fmt.Sprintf("%s operation failed for trigger %s: %v", e.Op, e.TriggerID, e.Err)
	}

	return fmt.Sprintf("%s operation failed for workflow %d: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func (e *WorkflowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkflowError creates a workflow error with context.
func NewWorkflowError(op string, workflowID int, err error) *WorkflowError {
	return &WorkflowError{Op: op, WorkflowID: workflowID, Err: err}
}

// NewTriggerError creates a workflow error for trigger-scoped operations.
func NewTriggerError(op, triggerID string, err error) *WorkflowError {
	return &WorkflowError{Op: op, TriggerID: triggerID, Err: err}
}

// IsWorkflowNotFound checks if an error indicates a missing workflow.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsTriggerAlreadyBound checks if an error indicates a trigger binding conflict.
func IsTriggerAlreadyBound(err error) bool {
	return errors.Is(err, ErrTriggerAlreadyBound)
}
