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

const compositionsDir = "compositions"

// CompositionRepository handles composition-related file operations.
type CompositionRepository struct {
	root       string
	executions *ExecutionRepository
}

// NewCompositionRepository creates a new composition repository. It needs the
// execution repository to orphan members on delete.
func NewCompositionRepository(root string, executions *ExecutionRepository) *CompositionRepository {
	return &CompositionRepository{root: root, executions: executions}
}

// GetByID returns a composition by its ID, or nil when it does not exist.
func (cr *CompositionRepository) GetByID(ctx context.Context, id string) (*models.Composition, error) {
	var composition models.Composition

	err := readDoc(cr.root, compositionsDir, id, &composition)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read composition %s: %w", id, err)
	}

	return &composition, nil
}

// GetAll returns all compositions, newest first.
func (cr *CompositionRepository) GetAll(ctx context.Context) ([]*models.Composition, error) {
	compositions := make([]*models.Composition, 0)

	err := listDocs(cr.root, compositionsDir, func(data []byte) error {
		var composition models.Composition

		if err := json.Unmarshal(data, &composition); err != nil {
			return fmt.Errorf("failed to unmarshal composition: %w", err)
		}

		compositions = append(compositions, &composition)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(compositions, func(i, j int) bool {
		return compositions[i].CreatedAt.After(compositions[j].CreatedAt)
	})

	return compositions, nil
}

// Save upserts a composition, touching UpdatedAt.
func (cr *CompositionRepository) Save(ctx context.Context, composition *models.Composition) error {
	now := time.Now().UTC()

	if composition.CreatedAt.IsZero() {
		composition.CreatedAt = now
	}

	composition.UpdatedAt = now

	if composition.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate composition ID: %w", err)
		}

		composition.ID = id.String()
	}

	return writeDoc(cr.root, compositionsDir, composition.ID, composition)
}

// Delete removes a composition and orphans its member executions back to
// standalone. Orphaning happens first so a partial failure never leaves
// executions pointing at a missing composition.
func (cr *CompositionRepository) Delete(ctx context.Context, id string) error {
	if err := cr.executions.orphanByComposition(ctx, id); err != nil {
		return fmt.Errorf("failed to orphan executions of composition %s: %w", id, err)
	}

	return deleteDoc(cr.root, compositionsDir, id)
}
