package models

import "time"

// ExecutionStatus defines the possible states of a workflow execution.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// statusRank orders execution statuses along the forward-only lifecycle.
// Terminal states share the highest rank so neither can replace the other.
var statusRank = map[ExecutionStatus]int{
	ExecutionStatusPending:   0,
	ExecutionStatusRunning:   1,
	ExecutionStatusCompleted: 2,
	ExecutionStatusFailed:    2,
}

// IsValid reports whether s is one of the four known statuses.
func (s ExecutionStatus) IsValid() bool {
	_, ok := statusRank[s]

	return ok
}

// IsTerminal reports whether s is a final state.
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Transitions are forward-only: pending -> running -> completed|failed.
// Pending may also jump straight to a terminal state (e.g. a run rejected
// before it ever starts).
func (s ExecutionStatus) CanTransitionTo(next ExecutionStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}

	to, ok := statusRank[next]
	if !ok {
		return false
	}

	return to > from
}

// Execution is one run instance of a workflow, optionally tagged with its
// position inside a composition. CompositionID and NodeID are set together
// or not at all; ExecutionOrder is only meaningful when CompositionID is set.
type Execution struct {
	ID             string          `json:"id"`
	WorkflowID     string          `json:"workflow_id"      validate:"required"`
	CompositionID  *string         `json:"composition_id,omitempty"`
	NodeID         *string         `json:"node_id,omitempty"`
	ExecutionOrder *int            `json:"execution_order,omitempty"`
	Status         ExecutionStatus `json:"status"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	ResultRowCount *int64          `json:"result_row_count,omitempty"`
	ResultLocation *string         `json:"result_location,omitempty"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InComposition reports whether the execution belongs to a composition.
func (e *Execution) InComposition() bool {
	return e.CompositionID != nil
}
