// Package services provides the business operations behind the HTTP API:
// composition aggregation, execution reporting, campaign search and content.
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

// Composition handles composition management and the status roll-up reads.
type Composition struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
}

// NewComposition creates a new composition service.
func NewComposition(persistence persistence.Persistence, publisher eventbus.EventPublisher) *Composition {
	return &Composition{
		persistence: persistence,
		publisher:   publisher,
	}
}

// Summarize computes the aggregate run state of a composition's executions.
// An unknown composition is not an error: it summarizes to zero counts and
// not_started, the same as a composition that has no executions yet.
func (c *Composition) Summarize(ctx context.Context, compositionID string) (*models.CompositionSummary, error) {
	executions, err := c.persistence.ExecutionRepository().ListByComposition(ctx, compositionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	summary := &models.CompositionSummary{
		CompositionID:   compositionID,
		TotalExecutions: len(executions),
	}

	for _, execution := range executions {
		switch execution.Status {
		case models.ExecutionStatusCompleted:
			summary.CompletedCount++
		case models.ExecutionStatusRunning:
			summary.RunningCount++
		case models.ExecutionStatusPending:
			summary.PendingCount++
		case models.ExecutionStatusFailed:
			summary.FailedCount++
		}

		if summary.FirstStart == nil || execution.CreatedAt.Before(*summary.FirstStart) {
			createdAt := execution.CreatedAt
			summary.FirstStart = &createdAt
		}

		if summary.LastUpdate == nil || execution.UpdatedAt.After(*summary.LastUpdate) {
			updatedAt := execution.UpdatedAt
			summary.LastUpdate = &updatedAt
		}
	}

	summary.OverallStatus = classifyOverall(summary)

	return summary, nil
}

// classifyOverall derives the single roll-up status. The branch order is a
// strict priority: any live work wins, then failure, then full completion.
func classifyOverall(s *models.CompositionSummary) models.OverallStatus {
	switch {
	case s.RunningCount+s.PendingCount > 0:
		return models.OverallStatusRunning
	case s.FailedCount > 0:
		return models.OverallStatusFailed
	case s.CompletedCount == s.TotalExecutions && s.TotalExecutions > 0:
		return models.OverallStatusCompleted
	case s.TotalExecutions == 0:
		return models.OverallStatusNotStarted
	default:
		return models.OverallStatusPartial
	}
}

// Detail returns one record per member execution, in topology order:
// execution_order ascending with nulls last, ties broken by created_at.
func (c *Composition) Detail(ctx context.Context, compositionID string) ([]models.ExecutionDetail, error) {
	details, err := c.persistence.ExecutionRepository().ListDetailsByComposition(ctx, compositionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list execution details: %w", err)
	}

	return details, nil
}

// FetchAll returns all compositions.
func (c *Composition) FetchAll(ctx context.Context) ([]*models.Composition, error) {
	return c.persistence.CompositionRepository().GetAll(ctx)
}

// FetchByID returns a composition by ID.
func (c *Composition) FetchByID(ctx context.Context, id string) (*models.Composition, error) {
	composition, err := c.persistence.CompositionRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if composition == nil {
		return nil, persistence.ErrCompositionNotFound
	}

	return composition, nil
}

// Create validates and persists a new composition.
func (c *Composition) Create(ctx context.Context, composition *models.Composition) (*models.Composition, error) {
	if composition.Name == "" {
		return nil, NewValidationError("Create", "NAME_REQUIRED", "composition name is required", ErrInvalidRequest)
	}

	if composition.Owner == "" {
		return nil, NewValidationError("Create", "OWNER_REQUIRED", "composition owner is required", ErrEmptyOwner)
	}

	composition.CreatedAt = time.Now().UTC()

	if err := c.persistence.CompositionRepository().Save(ctx, composition); err != nil {
		return nil, fmt.Errorf("failed to save composition: %w", err)
	}

	return composition, nil
}

// Delete removes a composition. Member executions are orphaned back to
// standalone rather than deleted, and a composition.deleted event records
// how many were detached.
func (c *Composition) Delete(ctx context.Context, id string) error {
	summary, err := c.Summarize(ctx, id)
	if err != nil {
		return err
	}

	if err := c.persistence.CompositionRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete composition: %w", err)
	}

	event := events.CompositionDeleted{
		BaseEvent:         events.NewBaseEvent(events.CompositionDeletedEvent, ""),
		CompositionID:     id,
		OrphanedCount:     summary.TotalExecutions,
		LastOverallStatus: summary.OverallStatus,
	}

	if err := c.publisher.Publish(ctx, id, event); err != nil {
		return fmt.Errorf("failed to publish composition.deleted: %w", err)
	}

	return nil
}
