package models

import "time"

// OverallStatus is the single derived classification summarizing the
// aggregate state of all executions in a composition.
type OverallStatus string

const (
	OverallStatusRunning    OverallStatus = "running"
	OverallStatusFailed     OverallStatus = "failed"
	OverallStatusCompleted  OverallStatus = "completed"
	OverallStatusNotStarted OverallStatus = "not_started"
	OverallStatusPartial    OverallStatus = "partial"
)

// CompositionSummary is the read-only roll-up of a composition's run state.
type CompositionSummary struct {
	CompositionID   string        `json:"composition_id"`
	TotalExecutions int           `json:"total_executions"`
	CompletedCount  int           `json:"completed_count"`
	FailedCount     int           `json:"failed_count"`
	RunningCount    int           `json:"running_count"`
	PendingCount    int           `json:"pending_count"`
	FirstStart      *time.Time    `json:"first_start,omitempty"`
	LastUpdate      *time.Time    `json:"last_update,omitempty"`
	OverallStatus   OverallStatus `json:"overall_status"`
}

// ExecutionDetail is one row of a composition's ordered execution listing,
// carrying enough context for a consumer to reconstruct the composition's
// execution sequence.
type ExecutionDetail struct {
	ExecutionID    string          `json:"execution_id"`
	NodeID         *string         `json:"node_id,omitempty"`
	WorkflowSlug   string          `json:"workflow_slug"`
	Status         ExecutionStatus `json:"status"`
	ExecutionOrder *int            `json:"execution_order,omitempty"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	ResultRowCount *int64          `json:"result_row_count,omitempty"`
	ResultLocation *string         `json:"result_location,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
