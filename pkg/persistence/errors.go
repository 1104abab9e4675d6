// Package persistence provides standardized error types for persistence
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrCompositionNotFound indicates a composition was not found by the given identifier.
	ErrCompositionNotFound = errors.New("composition not found")

	// ErrExecutionNotFound indicates an execution was not found by the given identifier.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrCampaignNotFound indicates a campaign was not found by the given identifier.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrProductNotFound indicates a catalog entry was not found.
	ErrProductNotFound = errors.New("product not found")

	// ErrGuideNotFound indicates a build guide was not found by the given slug.
	ErrGuideNotFound = errors.New("guide not found")

	// ErrInvalidSortField indicates a sort field outside the allowlist was requested.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// ExecutionError wraps execution-related errors with additional context.
type ExecutionError struct {
	Op            string // Operation being performed (e.g., "Save", "ListByComposition")
	ExecutionID   string // Execution ID if applicable
	CompositionID string // Composition ID if applicable
	Err           error  // Underlying error
}

func (e *ExecutionError) Error() string {
	target := e.ExecutionID
	if e.CompositionID != "" {
		target = fmt.Sprintf("composition %s", e.CompositionID)
	}

	return fmt.Sprintf("%s operation failed for execution %s: %v", e.Op, target, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewExecutionError creates a new execution error with context.
func NewExecutionError(op, executionID string, err error) *ExecutionError {
	return &ExecutionError{
		Op:          op,
		ExecutionID: executionID,
		Err:         err,
	}
}

// NewCompositionExecutionError creates an execution error scoped to a composition.
func NewCompositionExecutionError(op, compositionID string, err error) *ExecutionError {
	return &ExecutionError{
		Op:            op,
		CompositionID: compositionID,
		Err:           err,
	}
}

// CampaignError wraps campaign-related errors with additional context.
type CampaignError struct {
	Op         string
	CampaignID string
	Err        error
}

func (e *CampaignError) Error() string {
	return fmt.Sprintf("%s operation failed for campaign %s: %v", e.Op, e.CampaignID, e.Err)
}

func (e *CampaignError) Unwrap() error {
	return e.Err
}

func (e *CampaignError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsCompositionNotFound checks if an error indicates a composition was not found.
func IsCompositionNotFound(err error) bool {
	return errors.Is(err, ErrCompositionNotFound)
}

// IsExecutionNotFound checks if an error indicates an execution was not found.
func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}

// IsGuideNotFound checks if an error indicates a guide was not found.
func IsGuideNotFound(err error) bool {
	return errors.Is(err, ErrGuideNotFound)
}

// IsInvalidSortField checks if an error indicates a disallowed sort field.
func IsInvalidSortField(err error) bool {
	return errors.Is(err, ErrInvalidSortField)
}
