package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sellerkit/compass/pkg/models"
)

// CompositionRepository handles composition-related database operations.
type CompositionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCompositionRepository creates a new composition repository.
func NewCompositionRepository(db *sql.DB, logger *slog.Logger) *CompositionRepository {
	return &CompositionRepository{db: db, logger: logger}
}

// GetByID returns a composition by its ID, or nil when it does not exist.
func (r *CompositionRepository) GetByID(ctx context.Context, id string) (*models.Composition, error) {
	query := `
		SELECT id, name, description, metadata, owner, created_at, updated_at
		FROM compositions
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	composition, err := r.scanComposition(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan composition: %w", err)
	}

	return composition, nil
}

// GetAll returns all compositions, newest first.
func (r *CompositionRepository) GetAll(ctx context.Context) ([]*models.Composition, error) {
	query := `
		SELECT id, name, description, metadata, owner, created_at, updated_at
		FROM compositions
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query compositions: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	compositions := make([]*models.Composition, 0)

	for rows.Next() {
		composition, err := r.scanComposition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan composition: %w", err)
		}

		compositions = append(compositions, composition)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compositions: %w", err)
	}

	return compositions, nil
}

// Save upserts a composition. UpdatedAt is always touched as part of the write.
func (r *CompositionRepository) Save(ctx context.Context, composition *models.Composition) error {
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

	metadataJSON, err := json.Marshal(composition.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO compositions (id, name, description, metadata, owner, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			metadata = EXCLUDED.metadata,
			owner = EXCLUDED.owner,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		composition.ID,
		composition.Name,
		composition.Description,
		metadataJSON,
		composition.Owner,
		composition.CreatedAt,
		composition.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save composition: %w", err)
	}

	return nil
}

// Delete removes a composition. Member executions survive as standalone
// rows: their composition_id, node_id and execution_order are cleared in
// one statement so the membership columns stay consistent at every point.
func (r *CompositionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// All three membership columns must change together: the table CHECK
	// requires composition_id and node_id to be null in tandem, so relying
	// on the FK's ON DELETE SET NULL (which clears only composition_id)
	// would trip it.
	_, err = tx.ExecContext(ctx, `
		UPDATE executions
		SET composition_id = NULL, node_id = NULL, execution_order = NULL, updated_at = NOW()
		WHERE composition_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to orphan executions: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM compositions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete composition: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *CompositionRepository) scanComposition(scanner interface {
	Scan(dest ...any) error
}) (*models.Composition, error) {
	var (
		composition  models.Composition
		metadataJSON []byte
	)

	err := scanner.Scan(
		&composition.ID,
		&composition.Name,
		&composition.Description,
		&metadataJSON,
		&composition.Owner,
		&composition.CreatedAt,
		&composition.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if metadataJSON != nil {
		err := json.Unmarshal(metadataJSON, &composition.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &composition, nil
}
