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

// GuideRepository handles build-guide database operations.
type GuideRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewGuideRepository creates a new guide repository.
func NewGuideRepository(db *sql.DB, logger *slog.Logger) *GuideRepository {
	return &GuideRepository{db: db, logger: logger}
}

// GetBySlug returns a guide by its slug, or nil when it does not exist.
func (r *GuideRepository) GetBySlug(ctx context.Context, slug string) (*models.Guide, error) {
	query := `
		SELECT id, slug, title, category, sections, published, created_at, updated_at
		FROM build_guides
		WHERE slug = $1
	`

	row := r.db.QueryRowContext(ctx, query, slug)

	guide, err := r.scanGuide(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan guide: %w", err)
	}

	return guide, nil
}

// Save upserts a guide on its slug. UpdatedAt is always touched.
func (r *GuideRepository) Save(ctx context.Context, guide *models.Guide) error {
	now := time.Now().UTC()

	if guide.CreatedAt.IsZero() {
		guide.CreatedAt = now
	}

	guide.UpdatedAt = now

	if guide.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate guide ID: %w", err)
		}

		guide.ID = id.String()
	}

	sectionsJSON, err := json.Marshal(guide.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}

	query := `
		INSERT INTO build_guides (id, slug, title, category, sections, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			sections = EXCLUDED.sections,
			published = EXCLUDED.published,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		guide.ID,
		guide.Slug,
		guide.Title,
		guide.Category,
		sectionsJSON,
		guide.Published,
		guide.CreatedAt,
		guide.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save guide: %w", err)
	}

	return nil
}

// ListPublished returns all published guides ordered by category then title.
func (r *GuideRepository) ListPublished(ctx context.Context) ([]*models.Guide, error) {
	query := `
		SELECT id, slug, title, category, sections, published, created_at, updated_at
		FROM build_guides
		WHERE published = true
		ORDER BY category ASC, title ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query guides: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	guides := make([]*models.Guide, 0)

	for rows.Next() {
		guide, err := r.scanGuide(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guide: %w", err)
		}

		guides = append(guides, guide)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guides: %w", err)
	}

	return guides, nil
}

func (r *GuideRepository) scanGuide(scanner interface {
	Scan(dest ...any) error
}) (*models.Guide, error) {
	var (
		guide        models.Guide
		sectionsJSON []byte
	)

	err := scanner.Scan(
		&guide.ID,
		&guide.Slug,
		&guide.Title,
		&guide.Category,
		&sectionsJSON,
		&guide.Published,
		&guide.CreatedAt,
		&guide.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sectionsJSON != nil {
		err := json.Unmarshal(sectionsJSON, &guide.Sections)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
		}
	}

	return &guide, nil
}
