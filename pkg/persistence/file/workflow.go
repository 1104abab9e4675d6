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
	"github.com/sellerkit/compass/pkg/persistence"
)

const workflowsDir = "workflows"

// WorkflowRepository handles workflow-related file operations.
type WorkflowRepository struct {
	root string
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

// GetAll returns all workflows that have not been soft deleted, newest first.
func (wr *WorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	workflows := make([]*models.Workflow, 0)

	err := listDocs(wr.root, workflowsDir, func(data []byte) error {
		var workflow models.Workflow

		if err := json.Unmarshal(data, &workflow); err != nil {
			return fmt.Errorf("failed to unmarshal workflow: %w", err)
		}

		if workflow.DeletedAt == nil {
			workflows = append(workflows, &workflow)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})

	return workflows, nil
}

// GetByID returns a workflow by its ID, or nil when it does not exist.
func (wr *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	var workflow models.Workflow

	err := readDoc(wr.root, workflowsDir, id, &workflow)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read workflow %s: %w", id, err)
	}

	if workflow.DeletedAt != nil {
		return nil, nil
	}

	return &workflow, nil
}

// GetBySlug returns a workflow by its stable external identifier.
func (wr *WorkflowRepository) GetBySlug(ctx context.Context, slug string) (*models.Workflow, error) {
	workflows, err := wr.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, workflow := range workflows {
		if workflow.Slug == slug {
			return workflow, nil
		}
	}

	return nil, nil
}

// Save upserts a workflow to the file system, touching UpdatedAt.
func (wr *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	return writeDoc(wr.root, workflowsDir, workflow.ID, workflow)
}

// Delete soft deletes a workflow by setting the deleted_at timestamp.
func (wr *WorkflowRepository) Delete(ctx context.Context, id string) error {
	var workflow models.Workflow

	err := readDoc(wr.root, workflowsDir, id, &workflow)
	if err != nil {
		if os.IsNotExist(err) {
			// Workflow doesn't exist - this is not an error
			return nil
		}

		return fmt.Errorf("failed to read workflow %s: %w", id, err)
	}

	if workflow.DeletedAt != nil {
		return nil
	}

	now := time.Now().UTC()
	workflow.DeletedAt = &now
	workflow.UpdatedAt = now

	return writeDoc(wr.root, workflowsDir, id, &workflow)
}

// slugOf resolves a workflow's slug by ID, including soft-deleted workflows
// so historical execution details keep their identifier.
func (wr *WorkflowRepository) slugOf(ctx context.Context, id string) (string, error) {
	var workflow models.Workflow

	err := readDoc(wr.root, workflowsDir, id, &workflow)
	if err != nil {
		if os.IsNotExist(err) {
			return "", persistence.ErrWorkflowNotFound
		}

		return "", fmt.Errorf("failed to read workflow %s: %w", id, err)
	}

	return workflow.Slug, nil
}
