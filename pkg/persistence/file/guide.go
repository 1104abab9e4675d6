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

const guidesDir = "guides"

// GuideRepository handles build-guide file operations. Guides are keyed by
// slug so the slug doubles as the record's file name.
type GuideRepository struct {
	root string
}

// NewGuideRepository creates a new guide repository.
func NewGuideRepository(root string) *GuideRepository {
	return &GuideRepository{root: root}
}

// GetBySlug returns a guide by its slug, or nil when it does not exist.
func (gr *GuideRepository) GetBySlug(ctx context.Context, slug string) (*models.Guide, error) {
	var guide models.Guide

	err := readDoc(gr.root, guidesDir, slug, &guide)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read guide %s: %w", slug, err)
	}

	return &guide, nil
}

// Save upserts a guide on its slug, touching UpdatedAt.
func (gr *GuideRepository) Save(ctx context.Context, guide *models.Guide) error {
	existing, err := gr.GetBySlug(ctx, guide.Slug)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if existing != nil {
		guide.ID = existing.ID
		guide.CreatedAt = existing.CreatedAt
	}

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

	return writeDoc(gr.root, guidesDir, guide.Slug, guide)
}

// ListPublished returns all published guides ordered by title.
func (gr *GuideRepository) ListPublished(ctx context.Context) ([]*models.Guide, error) {
	guides := make([]*models.Guide, 0)

	err := listDocs(gr.root, guidesDir, func(data []byte) error {
		var guide models.Guide

		if err := json.Unmarshal(data, &guide); err != nil {
			return fmt.Errorf("failed to unmarshal guide: %w", err)
		}

		if guide.Published {
			guides = append(guides, &guide)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(guides, func(i, j int) bool {
		return guides[i].Title < guides[j].Title
	})

	return guides, nil
}
