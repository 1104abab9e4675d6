package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
)

var (
	// ErrWorkflowNotFound is returned when a workflow is not found.
	ErrWorkflowNotFound = persistence.ErrWorkflowNotFound
)

// Workflow handles workflow template management.
type Workflow struct {
	persistence persistence.Persistence
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(persistence persistence.Persistence) *Workflow {
	return &Workflow{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// FetchAll returns all workflows.
func (w *Workflow) FetchAll(ctx context.Context) ([]*models.Workflow, error) {
	return w.persistence.WorkflowRepository().GetAll(ctx)
}

// FetchByID returns a workflow by ID or ErrWorkflowNotFound.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}

	return workflow, nil
}

// FetchBySlug returns a workflow by slug or ErrWorkflowNotFound.
func (w *Workflow) FetchBySlug(ctx context.Context, slug string) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowRepository().GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}

	return workflow, nil
}

// Create validates and persists a new workflow template.
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow.Name == "" {
		return nil, NewValidationError("Create", "NAME_REQUIRED", "workflow name is required", ErrInvalidRequest)
	}

	if workflow.Slug == "" {
		return nil, NewValidationError("Create", "SLUG_REQUIRED", "workflow slug is required", ErrInvalidRequest)
	}

	existing, err := w.persistence.WorkflowRepository().GetBySlug(ctx, workflow.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	if existing != nil {
		return nil, NewValidationError("Create", "SLUG_TAKEN",
			fmt.Sprintf("slug %q is already in use", workflow.Slug), ErrInvalidRequest)
	}

	if workflow.Status == "" {
		workflow.Status = models.WorkflowStatusDraft
	}

	workflow.CreatedAt = time.Now().UTC()

	if err := w.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}

// Delete soft deletes a workflow.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	return w.persistence.WorkflowRepository().Delete(ctx, id)
}

// ListExecutions returns all executions of a workflow, newest first.
func (w *Workflow) ListExecutions(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	if _, err := w.FetchByID(ctx, workflowID); err != nil {
		return nil, err
	}

	return w.persistence.ExecutionRepository().ListByWorkflow(ctx, workflowID)
}
