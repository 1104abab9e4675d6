package file

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sellerkit/compass/pkg/models"
)

const productsDir = "products"

// CatalogRepository handles product catalog file operations.
type CatalogRepository struct {
	root string
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(root string) *CatalogRepository {
	return &CatalogRepository{root: root}
}

// GetByASIN returns the most recently updated catalog entry for the
// owner and ASIN pair, or nil when none exists.
func (cr *CatalogRepository) GetByASIN(ctx context.Context, owner, asin string) (*models.Product, error) {
	var match *models.Product

	err := listDocs(cr.root, productsDir, func(data []byte) error {
		var product models.Product

		if err := json.Unmarshal(data, &product); err != nil {
			return fmt.Errorf("failed to unmarshal product: %w", err)
		}

		if product.Owner != owner || product.ASIN != asin {
			return nil
		}

		if match == nil || product.UpdatedAt.After(match.UpdatedAt) {
			match = &product
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return match, nil
}

// Save upserts a product on its (owner, asin, marketplace) identity.
func (cr *CatalogRepository) Save(ctx context.Context, product *models.Product) error {
	existing, err := cr.find(product.Owner, product.ASIN, product.Marketplace)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if existing != nil {
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
	}

	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}

	product.UpdatedAt = now

	if product.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate product ID: %w", err)
		}

		product.ID = id.String()
	}

	return writeDoc(cr.root, productsDir, product.ID, product)
}

// ListByOwner returns all products of an owner ordered by ASIN.
func (cr *CatalogRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Product, error) {
	products := make([]*models.Product, 0)

	err := listDocs(cr.root, productsDir, func(data []byte) error {
		var product models.Product

		if err := json.Unmarshal(data, &product); err != nil {
			return fmt.Errorf("failed to unmarshal product: %w", err)
		}

		if product.Owner == owner {
			products = append(products, &product)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].ASIN < products[j].ASIN
	})

	return products, nil
}

func (cr *CatalogRepository) find(owner, asin, marketplace string) (*models.Product, error) {
	var match *models.Product

	err := listDocs(cr.root, productsDir, func(data []byte) error {
		var product models.Product

		if err := json.Unmarshal(data, &product); err != nil {
			return fmt.Errorf("failed to unmarshal product: %w", err)
		}

		if product.Owner == owner && product.ASIN == asin && product.Marketplace == marketplace {
			match = &product
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return match, nil
}
