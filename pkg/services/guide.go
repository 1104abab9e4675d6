package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
)

// sectionBodySchemas defines, per section kind, the JSON schema its body
// must satisfy before a guide is accepted.
var sectionBodySchemas = map[string]map[string]any{
	"text": {
		"type":                 "object",
		"required":             []string{"text"},
		"additionalProperties": false,
		"properties": map[string]any{
			"text": map[string]any{"type": "string", "minLength": 1},
		},
	},
	"steps": {
		"type":     "object",
		"required": []string{"steps"},
		"properties": map[string]any{
			"steps": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
		},
	},
	"callout": {
		"type":     "object",
		"required": []string{"text"},
		"properties": map[string]any{
			"text":  map[string]any{"type": "string", "minLength": 1},
			"level": map[string]any{"enum": []string{"info", "warning", "danger"}},
		},
	},
	"video": {
		"type":     "object",
		"required": []string{"url"},
		"properties": map[string]any{
			"url":   map[string]any{"type": "string", "format": "uri"},
			"title": map[string]any{"type": "string"},
		},
	},
}

// Guide handles build-guide content management.
type Guide struct {
	persistence persistence.Persistence
}

// NewGuide creates a new guide service.
func NewGuide(persistence persistence.Persistence) *Guide {
	return &Guide{
		persistence: persistence,
	}
}

// FetchBySlug returns a guide by slug.
func (g *Guide) FetchBySlug(ctx context.Context, slug string) (*models.Guide, error) {
	guide, err := g.persistence.GuideRepository().GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if guide == nil {
		return nil, persistence.ErrGuideNotFound
	}

	return guide, nil
}

// ListPublished returns all published guides.
func (g *Guide) ListPublished(ctx context.Context) ([]*models.Guide, error) {
	return g.persistence.GuideRepository().ListPublished(ctx)
}

// Save validates the guide's section content against its kind schemas and
// upserts it on the slug.
func (g *Guide) Save(ctx context.Context, guide *models.Guide) (*models.Guide, error) {
	if guide.Slug == "" {
		return nil, NewValidationError("Save", "SLUG_REQUIRED", "guide slug is required", ErrInvalidGuide)
	}

	if guide.Title == "" {
		return nil, NewValidationError("Save", "TITLE_REQUIRED", "guide title is required", ErrInvalidGuide)
	}

	for i, section := range guide.Sections {
		if err := validateSection(&section); err != nil {
			return nil, NewValidationError("Save", "INVALID_SECTION",
				fmt.Sprintf("section %d: %v", i, err), ErrInvalidGuide)
		}
	}

	if err := g.persistence.GuideRepository().Save(ctx, guide); err != nil {
		return nil, fmt.Errorf("failed to save guide: %w", err)
	}

	return guide, nil
}

func validateSection(section *models.GuideSection) error {
	if section.Heading == "" {
		return fmt.Errorf("heading is required")
	}

	schema, ok := sectionBodySchemas[section.Kind]
	if !ok {
		return fmt.Errorf("unknown section kind %q", section.Kind)
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(section.Body)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			messages = append(messages, resultError.String())
		}

		return fmt.Errorf("body validation failed: %s", strings.Join(messages, "; "))
	}

	return nil
}
