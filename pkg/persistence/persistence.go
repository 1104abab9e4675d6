// Package persistence provides the data storage abstraction layer for
// workflows, compositions, executions, campaigns, catalog entries and guides.
package persistence

import (
	"context"

	"github.com/sellerkit/compass/pkg/models"
)

// Persistence is the root accessor for all repositories of a backend.
//
// Every Get* method returns (nil, nil) when no matching record exists;
// errors are reserved for storage failures. Callers that need a not-found
// error translate the nil themselves (the service layer maps it to the
// sentinel errors in this package).
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	CompositionRepository() CompositionRepository
	ExecutionRepository() ExecutionRepository
	CampaignRepository() CampaignRepository
	CatalogRepository() CatalogRepository
	GuideRepository() GuideRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow template definitions.
type WorkflowRepository interface {
	GetAll(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	GetBySlug(ctx context.Context, slug string) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// CompositionRepository stores compositions. Delete must orphan the
// composition's executions (composition_id, node_id and execution_order
// reset to null) rather than removing them.
type CompositionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Composition, error)
	GetAll(ctx context.Context) ([]*models.Composition, error)
	Save(ctx context.Context, composition *models.Composition) error
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository stores workflow executions.
type ExecutionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Execution, error)
	Save(ctx context.Context, execution *models.Execution) error

	// ListByComposition returns every execution currently belonging to the
	// composition, ordered by execution_order ascending with nulls last,
	// ties broken by created_at ascending.
	ListByComposition(ctx context.Context, compositionID string) ([]*models.Execution, error)

	// ListDetailsByComposition returns the same set joined with the owning
	// workflow's slug, in the same order.
	ListDetailsByComposition(ctx context.Context, compositionID string) ([]models.ExecutionDetail, error)

	ListByWorkflow(ctx context.Context, workflowID string) ([]*models.Execution, error)
}

// CampaignRepository stores campaigns and answers search queries.
type CampaignRepository interface {
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	Save(ctx context.Context, campaign *models.Campaign) error
	Search(ctx context.Context, opts CampaignSearchOptions) (*CampaignSearchResult, error)
}

// CatalogRepository stores product catalog entries.
type CatalogRepository interface {
	GetByASIN(ctx context.Context, owner, asin string) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	ListByOwner(ctx context.Context, owner string) ([]*models.Product, error)
}

// GuideRepository stores build-guide documents.
type GuideRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Guide, error)
	Save(ctx context.Context, guide *models.Guide) error
	ListPublished(ctx context.Context) ([]*models.Guide, error)
}
