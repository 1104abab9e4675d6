package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sellerkit/compass/pkg/models"
	"github.com/sellerkit/compass/pkg/persistence"
)

var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// Catalog handles product catalog management.
type Catalog struct {
	persistence persistence.Persistence
}

// NewCatalog creates a new catalog service.
func NewCatalog(persistence persistence.Persistence) *Catalog {
	return &Catalog{
		persistence: persistence,
	}
}

// FetchByASIN returns the owner's catalog entry for an ASIN.
func (c *Catalog) FetchByASIN(ctx context.Context, owner, asin string) (*models.Product, error) {
	if owner == "" {
		return nil, NewValidationError("FetchByASIN", "OWNER_REQUIRED", "owner is required", ErrEmptyOwner)
	}

	product, err := c.persistence.CatalogRepository().GetByASIN(ctx, owner, asin)
	if err != nil {
		return nil, err
	}

	if product == nil {
		return nil, persistence.ErrProductNotFound
	}

	return product, nil
}

// ListByOwner returns all catalog entries of an owner.
func (c *Catalog) ListByOwner(ctx context.Context, owner string) ([]*models.Product, error) {
	if owner == "" {
		return nil, NewValidationError("ListByOwner", "OWNER_REQUIRED", "owner is required", ErrEmptyOwner)
	}

	return c.persistence.CatalogRepository().ListByOwner(ctx, owner)
}

// Save validates and upserts a catalog entry on its (owner, asin,
// marketplace) identity.
func (c *Catalog) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.Owner == "" {
		return nil, NewValidationError("Save", "OWNER_REQUIRED", "product owner is required", ErrEmptyOwner)
	}

	if !asinPattern.MatchString(product.ASIN) {
		return nil, NewValidationError("Save", "INVALID_ASIN",
			fmt.Sprintf("ASIN %q must be 10 uppercase alphanumeric characters", product.ASIN), ErrInvalidRequest)
	}

	if product.Title == "" {
		return nil, NewValidationError("Save", "TITLE_REQUIRED", "product title is required", ErrInvalidRequest)
	}

	if product.Marketplace == "" {
		return nil, NewValidationError("Save", "MARKETPLACE_REQUIRED", "product marketplace is required", ErrInvalidRequest)
	}

	if err := c.persistence.CatalogRepository().Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	return product, nil
}
