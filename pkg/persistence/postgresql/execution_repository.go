package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sellerkit/compass/pkg/models"
)

// ExecutionRepository handles execution-related database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

const executionColumns = `
	id
  , workflow_id
  , composition_id
  , node_id
  , execution_order
  , status
  , error_message
  , result_row_count
  , result_location
  , started_at
  , completed_at
  , created_at
  , updated_at
`

// GetByID retrieves an execution by its ID, or nil when it does not exist.
func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM executions
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	execution, err := r.scanExecution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	return execution, nil
}

// Save upserts an execution. UpdatedAt is always touched as part of the
// write, so aggregate activity windows reflect every mutation.
func (r *ExecutionRepository) Save(ctx context.Context, execution *models.Execution) error {
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

	query := `
		INSERT INTO executions (
			id, workflow_id, composition_id, node_id, execution_order, status,
			error_message, result_row_count, result_location,
			started_at, completed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			composition_id = EXCLUDED.composition_id,
			node_id = EXCLUDED.node_id,
			execution_order = EXCLUDED.execution_order,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			result_row_count = EXCLUDED.result_row_count,
			result_location = EXCLUDED.result_location,
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.CompositionID,
		execution.NodeID,
		execution.ExecutionOrder,
		execution.Status,
		nullableString(execution.ErrorMessage),
		execution.ResultRowCount,
		execution.ResultLocation,
		execution.StartedAt,
		execution.CompletedAt,
		execution.CreatedAt,
		execution.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save execution: %w", err)
	}

	return nil
}

// ListByComposition returns all executions currently belonging to the
// composition, ordered by execution_order ascending with nulls last, ties
// broken by created_at ascending. Consumers rely on this order to
// reconstruct the composition's execution sequence.
func (r *ExecutionRepository) ListByComposition(ctx context.Context, compositionID string) ([]*models.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM executions
		WHERE composition_id = $1
		ORDER BY execution_order ASC NULLS LAST, created_at ASC
	`

	return r.queryExecutions(ctx, query, compositionID)
}

// ListByWorkflow returns all executions of a workflow, newest first.
func (r *ExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM executions
		WHERE workflow_id = $1
		ORDER BY created_at DESC
	`

	return r.queryExecutions(ctx, query, workflowID)
}

// ListDetailsByComposition returns the composition's executions joined with
// the owning workflow's slug, in dependency order.
func (r *ExecutionRepository) ListDetailsByComposition(ctx context.Context, compositionID string) ([]models.ExecutionDetail, error) {
	query := `
		SELECT
			e.id,
			e.node_id,
			w.slug,
			e.status,
			e.execution_order,
			e.started_at,
			e.completed_at,
			e.error_message,
			e.result_row_count,
			e.result_location,
			e.created_at
		FROM executions e
		JOIN workflows w ON w.id = e.workflow_id
		WHERE e.composition_id = $1
		ORDER BY e.execution_order ASC NULLS LAST, e.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, compositionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution details: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	details := make([]models.ExecutionDetail, 0)

	for rows.Next() {
		var (
			detail       models.ExecutionDetail
			errorMessage sql.NullString
		)

		err := rows.Scan(
			&detail.ExecutionID,
			&detail.NodeID,
			&detail.WorkflowSlug,
			&detail.Status,
			&detail.ExecutionOrder,
			&detail.StartedAt,
			&detail.CompletedAt,
			&errorMessage,
			&detail.ResultRowCount,
			&detail.ResultLocation,
			&detail.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution detail: %w", err)
		}

		detail.ErrorMessage = errorMessage.String

		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating execution details: %w", err)
	}

	return details, nil
}

func (r *ExecutionRepository) queryExecutions(ctx context.Context, query string, args ...any) ([]*models.Execution, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		execution, err := r.scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

func (r *ExecutionRepository) scanExecution(scanner interface {
	Scan(dest ...any) error
}) (*models.Execution, error) {
	var (
		execution    models.Execution
		errorMessage sql.NullString
	)

	err := scanner.Scan(
		&execution.ID,
		&execution.WorkflowID,
		&execution.CompositionID,
		&execution.NodeID,
		&execution.ExecutionOrder,
		&execution.Status,
		&errorMessage,
		&execution.ResultRowCount,
		&execution.ResultLocation,
		&execution.StartedAt,
		&execution.CompletedAt,
		&execution.CreatedAt,
		&execution.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	execution.ErrorMessage = errorMessage.String

	return &execution, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}
