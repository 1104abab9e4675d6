// Package events defines event types and structures for execution lifecycle
// notifications.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/sellerkit/compass/pkg/models"
)

type EventType string

// Kafka topics.
const Topic = "compass.events" // Execution lifecycle events

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Execution lifecycle events.
	ExecutionDispatchedEvent EventType = "execution.dispatched"
	ExecutionStartedEvent    EventType = "execution.started"
	ExecutionCompletedEvent  EventType = "execution.completed"
	ExecutionFailedEvent     EventType = "execution.failed"

	// Composition events.
	CompositionDeletedEvent EventType = "composition.deleted"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ExecutionDispatched is emitted when a new execution is accepted and queued.
type ExecutionDispatched struct {
	BaseEvent

	ExecutionID    string  `json:"execution_id"`
	CompositionID  *string `json:"composition_id,omitempty"`
	NodeID         *string `json:"node_id,omitempty"`
	ExecutionOrder *int    `json:"execution_order,omitempty"`
}

func (e ExecutionDispatched) GetType() EventType {
	return ExecutionDispatchedEvent
}

// ExecutionStarted is emitted on the pending to running transition.
type ExecutionStarted struct {
	BaseEvent

	ExecutionID   string    `json:"execution_id"`
	CompositionID *string   `json:"composition_id,omitempty"`
	StartedAt     time.Time `json:"started_at"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

// ExecutionCompleted is emitted when an execution reaches the completed state.
type ExecutionCompleted struct {
	BaseEvent

	ExecutionID    string  `json:"execution_id"`
	CompositionID  *string `json:"composition_id,omitempty"`
	DurationMs     int64   `json:"duration_ms"`
	ResultRowCount *int64  `json:"result_row_count,omitempty"`
	ResultLocation *string `json:"result_location,omitempty"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

// ExecutionFailed is emitted when an execution reaches the failed state.
type ExecutionFailed struct {
	BaseEvent

	ExecutionID   string  `json:"execution_id"`
	CompositionID *string `json:"composition_id,omitempty"`
	Error         string  `json:"error"`
	DurationMs    int64   `json:"duration_ms"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

// CompositionDeleted is emitted after a composition is removed and its
// member executions orphaned.
type CompositionDeleted struct {
	BaseEvent

	CompositionID     string               `json:"composition_id"`
	OrphanedCount     int                  `json:"orphaned_count"`
	LastOverallStatus models.OverallStatus `json:"last_overall_status,omitempty"`
}

func (e CompositionDeleted) GetType() EventType {
	return CompositionDeletedEvent
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}
