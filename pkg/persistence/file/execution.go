package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sellerkit/compass/pkg/models"
)

const executionsDir = "executions"

// ExecutionRepository handles execution-related file operations.
type ExecutionRepository struct {
	root string

	// workflowSlug resolves the owning workflow's slug when building
	// execution details. Wired by NewPersistence.
	workflowSlug func(ctx context.Context, workflowID string) (string, error)
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

// GetByID returns an execution by its ID, or nil when it does not exist.
func (er *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	var execution models.Execution

	err := readDoc(er.root, executionsDir, id, &execution)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read execution %s: %w", id, err)
	}

	return &execution, nil
}

// Save upserts an execution, touching UpdatedAt.
func (er *ExecutionRepository) Save(ctx context.Context, execution *models.Execution) error {
	now := time.Now().UTC()

	if execution.CreatedAt.IsZero() {
		execution.CreatedAt = now
	}

	execution.UpdatedAt = now

	if execution.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate execution ID: %w", err)
		}

		execution.ID = id.String()
	}

	return writeDoc(er.root, executionsDir, execution.ID, execution)
}

// ListByComposition returns the composition's executions ordered by
// execution_order ascending with nulls last, ties broken by created_at.
func (er *ExecutionRepository) ListByComposition(ctx context.Context, compositionID string) ([]*models.Execution, error) {
	executions, err := er.list(func(e *models.Execution) bool {
		return e.CompositionID != nil && *e.CompositionID == compositionID
	})
	if err != nil {
		return nil, err
	}

	sortForListing(executions)

	return executions, nil
}

// ListDetailsByComposition returns the composition's executions joined with
// their workflow slugs, in listing order.
func (er *ExecutionRepository) ListDetailsByComposition(ctx context.Context, compositionID string) ([]models.ExecutionDetail, error) {
	executions, err := er.ListByComposition(ctx, compositionID)
	if err != nil {
		return nil, err
	}

	details := make([]models.ExecutionDetail, 0, len(executions))

	for _, execution := range executions {
		slug, err := er.workflowSlug(ctx, execution.WorkflowID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve workflow for execution %s: %w", execution.ID, err)
		}

		details = append(details, models.ExecutionDetail{
			ExecutionID:    execution.ID,
			NodeID:         execution.NodeID,
			WorkflowSlug:   slug,
			Status:         execution.Status,
			ExecutionOrder: execution.ExecutionOrder,
			StartedAt:      execution.StartedAt,
			CompletedAt:    execution.CompletedAt,
			ErrorMessage:   execution.ErrorMessage,
			ResultRowCount: execution.ResultRowCount,
			ResultLocation: execution.ResultLocation,
			CreatedAt:      execution.CreatedAt,
		})
	}

	return details, nil
}

// ListByWorkflow returns all executions of a workflow, newest first.
func (er *ExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	executions, err := er.list(func(e *models.Execution) bool {
		return e.WorkflowID == workflowID
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(executions, func(i, j int) bool {
		return executions[i].CreatedAt.After(executions[j].CreatedAt)
	})

	return executions, nil
}

// orphanByComposition detaches every execution belonging to the composition,
// resetting composition_id, node_id and execution_order to null. Used when
// the owning composition is deleted.
func (er *ExecutionRepository) orphanByComposition(ctx context.Context, compositionID string) error {
	executions, err := er.list(func(e *models.Execution) bool {
		return e.CompositionID != nil && *e.CompositionID == compositionID
	})
	if err != nil {
		return err
	}

	for _, execution := range executions {
		execution.CompositionID = nil
		execution.NodeID = nil
		execution.ExecutionOrder = nil
		execution.UpdatedAt = time.Now().UTC()

		if err := writeDoc(er.root, executionsDir, execution.ID, execution); err != nil {
			return err
		}
	}

	return nil
}

func (er *ExecutionRepository) list(keep func(*models.Execution) bool) ([]*models.Execution, error) {
	executions := make([]*models.Execution, 0)

	err := listDocs(er.root, executionsDir, func(data []byte) error {
		var execution models.Execution

		if err := json.Unmarshal(data, &execution); err != nil {
			return fmt.Errorf("failed to unmarshal execution: %w", err)
		}

		if keep(&execution) {
			executions = append(executions, &execution)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return executions, nil
}

// sortForListing applies the listing order contract: execution_order
// ascending with nulls last, ties broken by created_at ascending.
func sortForListing(executions []*models.Execution) {
	sort.SliceStable(executions, func(i, j int) bool {
		a, b := executions[i], executions[j]

		switch {
		case a.ExecutionOrder != nil && b.ExecutionOrder != nil:
			if *a.ExecutionOrder != *b.ExecutionOrder {
				return *a.ExecutionOrder < *b.ExecutionOrder
			}
		case a.ExecutionOrder != nil:
			return true
		case b.ExecutionOrder != nil:
			return false
		}

		return a.CreatedAt.Before(b.CreatedAt)
	})
}
