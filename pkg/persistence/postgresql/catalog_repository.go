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

// CatalogRepository handles product catalog database operations.
type CatalogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sql.DB, logger *slog.Logger) *CatalogRepository {
	return &CatalogRepository{db: db, logger: logger}
}

// GetByASIN returns a tenant's catalog entry for an ASIN, or nil when absent.
// ASINs repeat across marketplaces; this returns the most recently updated.
func (r *CatalogRepository) GetByASIN(ctx context.Context, owner, asin string) (*models.Product, error) {
	query := `
		SELECT id, owner, asin, sku, title, brand, marketplace, created_at, updated_at
		FROM products
		WHERE owner = $1 AND asin = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query, owner, asin)

	product, err := r.scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	return product, nil
}

// Save upserts a product on its (owner, asin, marketplace) identity.
func (r *CatalogRepository) Save(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()

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

	query := `
		INSERT INTO products (id, owner, asin, sku, title, brand, marketplace, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner, asin, marketplace) DO UPDATE SET
			sku = EXCLUDED.sku,
			title = EXCLUDED.title,
			brand = EXCLUDED.brand,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Owner,
		product.ASIN,
		product.SKU,
		product.Title,
		product.Brand,
		product.Marketplace,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	return nil
}

// ListByOwner returns a tenant's full catalog, newest first.
func (r *CatalogRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Product, error) {
	query := `
		SELECT id, owner, asin, sku, title, brand, marketplace, created_at, updated_at
		FROM products
		WHERE owner = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	products := make([]*models.Product, 0)

	for rows.Next() {
		product, err := r.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (r *CatalogRepository) scanProduct(scanner interface {
	Scan(dest ...any) error
}) (*models.Product, error) {
	var product models.Product

	err := scanner.Scan(
		&product.ID,
		&product.Owner,
		&product.ASIN,
		&product.SKU,
		&product.Title,
		&product.Brand,
		&product.Marketplace,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &product, nil
}
