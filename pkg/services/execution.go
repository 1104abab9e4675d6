package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sellerkit/compass/pkg/eventbus"
	"github.com/sellerkit/compass/pkg/events"
	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
)

// DispatchExecutionRequest is the request to register a new execution run.
type DispatchExecutionRequest struct {
	WorkflowID     string  `validate:"required"`
	CompositionID  *string
	NodeID         *string
	ExecutionOrder *int
}

// ReportStatusRequest carries a status transition reported by the execution
// runner, optionally with result metadata for terminal transitions.
type ReportStatusRequest struct {
	Status         models.ExecutionStatus `validate:"required"`
	ErrorMessage   string
	ResultRowCount *int64
	ResultLocation *string
}

// Execution handles the execution write path: dispatching new runs and
// recording lifecycle transitions reported by the runner.
type Execution struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
}

// NewExecution creates a new execution service.
func NewExecution(persistence persistence.Persistence, publisher eventbus.EventPublisher) *Execution {
	return &Execution{
		persistence: persistence,
		publisher:   publisher,
	}
}

// FetchByID returns an execution by ID.
func (e *Execution) FetchByID(ctx context.Context, id string) (*models.Execution, error) {
	execution, err := e.persistence.ExecutionRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if execution == nil {
		return nil, persistence.ErrExecutionNotFound
	}

	return execution, nil
}

// Dispatch validates placement invariants, persists the execution in the
// pending state and announces it on the event bus.
func (e *Execution) Dispatch(ctx context.Context, req *DispatchExecutionRequest) (*models.Execution, error) {
	if req.WorkflowID == "" {
		return nil, NewValidationError("Dispatch", "WORKFLOW_REQUIRED", "workflow_id is required", ErrWorkflowRequired)
	}

	// Composition membership is all-or-nothing: composition_id and node_id
	// are set together, and execution_order only makes sense inside one.
	if (req.CompositionID == nil) != (req.NodeID == nil) {
		return nil, NewValidationError("Dispatch", "PARTIAL_PLACEMENT",
			"composition_id and node_id must be provided together", ErrPartialPlacement)
	}

	if req.ExecutionOrder != nil && req.CompositionID == nil {
		return nil, NewValidationError("Dispatch", "ORDER_WITHOUT_COMPOSITION",
			"execution_order requires a composition_id", ErrOrderWithoutGroup)
	}

	workflow, err := e.persistence.WorkflowRepository().GetByID(ctx, req.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	if workflow == nil {
		return nil, persistence.ErrWorkflowNotFound
	}

	if req.CompositionID != nil {
		composition, err := e.persistence.CompositionRepository().GetByID(ctx, *req.CompositionID)
		if err != nil {
			return nil, fmt.Errorf("failed to get composition: %w", err)
		}

		if composition == nil {
			return nil, persistence.ErrCompositionNotFound
		}
	}

	execution := &models.Execution{
		WorkflowID:     req.WorkflowID,
		CompositionID:  req.CompositionID,
		NodeID:         req.NodeID,
		ExecutionOrder: req.ExecutionOrder,
		Status:         models.ExecutionStatusPending,
	}

	if err := e.persistence.ExecutionRepository().Save(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to save execution: %w", err)
	}

	event := events.ExecutionDispatched{
		BaseEvent:      events.NewBaseEvent(events.ExecutionDispatchedEvent, execution.WorkflowID),
		ExecutionID:    execution.ID,
		CompositionID:  execution.CompositionID,
		NodeID:         execution.NodeID,
		ExecutionOrder: execution.ExecutionOrder,
	}

	if err := e.publisher.Publish(ctx, execution.ID, event); err != nil {
		return nil, fmt.Errorf("failed to publish execution.dispatched: %w", err)
	}

	return execution, nil
}

// ReportStatus records a lifecycle transition. Transitions are forward-only:
// pending -> running -> completed|failed, with pending allowed to jump
// straight to a terminal state. Repeating the current status or moving
// backwards is a conflict.
func (e *Execution) ReportStatus(ctx context.Context, executionID string, req *ReportStatusRequest) (*models.Execution, error) {
	if !req.Status.IsValid() {
		return nil, NewValidationError("ReportStatus", "INVALID_STATUS",
			fmt.Sprintf("unknown status %q", req.Status), ErrInvalidStatus)
	}

	execution, err := e.persistence.ExecutionRepository().GetByID(ctx, executionID)
	if err != nil {
		return nil, err
	}

	if execution == nil {
		return nil, persistence.ErrExecutionNotFound
	}

	if !execution.Status.CanTransitionTo(req.Status) {
		if execution.Status.IsTerminal() {
			return nil, NewConflictError("ReportStatus", "EXECUTION_TERMINAL",
				fmt.Sprintf("execution is already %s", execution.Status), ErrTerminalExecution)
		}

		return nil, NewConflictError("ReportStatus", "ILLEGAL_TRANSITION",
			fmt.Sprintf("cannot move from %s to %s", execution.Status, req.Status), ErrIllegalTransition)
	}

	now := time.Now().UTC()
	execution.Status = req.Status

	switch req.Status {
	case models.ExecutionStatusRunning:
		execution.StartedAt = &now
	case models.ExecutionStatusCompleted:
		if execution.StartedAt == nil {
			execution.StartedAt = &now
		}

		execution.CompletedAt = &now
		execution.ResultRowCount = req.ResultRowCount
		execution.ResultLocation = req.ResultLocation
	case models.ExecutionStatusFailed:
		if execution.StartedAt == nil {
			execution.StartedAt = &now
		}

		execution.CompletedAt = &now
		execution.ErrorMessage = req.ErrorMessage
	case models.ExecutionStatusPending:
		// Unreachable: nothing transitions back to pending.
	}

	if err := e.persistence.ExecutionRepository().Save(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to save execution: %w", err)
	}

	if err := e.publishTransition(ctx, execution); err != nil {
		return nil, err
	}

	return execution, nil
}

func (e *Execution) publishTransition(ctx context.Context, execution *models.Execution) error {
	var event eventbus.Event

	switch execution.Status {
	case models.ExecutionStatusRunning:
		event = events.ExecutionStarted{
			BaseEvent:     events.NewBaseEvent(events.ExecutionStartedEvent, execution.WorkflowID),
			ExecutionID:   execution.ID,
			CompositionID: execution.CompositionID,
			StartedAt:     *execution.StartedAt,
		}
	case models.ExecutionStatusCompleted:
		event = events.ExecutionCompleted{
			BaseEvent:      events.NewBaseEvent(events.ExecutionCompletedEvent, execution.WorkflowID),
			ExecutionID:    execution.ID,
			CompositionID:  execution.CompositionID,
			DurationMs:     durationMs(execution),
			ResultRowCount: execution.ResultRowCount,
			ResultLocation: execution.ResultLocation,
		}
	case models.ExecutionStatusFailed:
		event = events.ExecutionFailed{
			BaseEvent:     events.NewBaseEvent(events.ExecutionFailedEvent, execution.WorkflowID),
			ExecutionID:   execution.ID,
			CompositionID: execution.CompositionID,
			Error:         execution.ErrorMessage,
			DurationMs:    durationMs(execution),
		}
	case models.ExecutionStatusPending:
		return nil
	}

	if err := e.publisher.Publish(ctx, execution.ID, event); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.GetType(), err)
	}

	return nil
}

func durationMs(execution *models.Execution) int64 {
	if execution.StartedAt == nil || execution.CompletedAt == nil {
		return 0
	}

	return execution.CompletedAt.Sub(*execution.StartedAt).Milliseconds()
}
