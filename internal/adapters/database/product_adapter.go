package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

var productColumns = []any{
	"id", "craftsman_id", "name", "description", "craft_type", "category",
	"price", "inventory", "image_url", "status", "created_at", "updated_at",
}

// ProductAdapter implements the ProductRepository interface
type ProductAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProductAdapter creates a new product adapter
func NewProductAdapter(client *postgres.Client) repositories.ProductRepository {
	return &ProductAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a product by ID
func (a *ProductAdapter) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	query, args, err := a.db.Select(productColumns...).
		From("products").
		Where(goqu.Ex{"id": id, "status": entities.ProductStatusActive}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	product, err := scanProduct(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get product", err)
	}
	return product, nil
}

// GetByIDs retrieves multiple products by their IDs
func (a *ProductAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Product, error) {
	if len(ids) == 0 {
		return []*entities.Product{}, nil
	}

	query, args, err := a.db.Select(productColumns...).
		From("products").
		Where(goqu.Ex{"id": ids, "status": entities.ProductStatusActive}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryProducts(ctx, query, args)
}

// Search fetches active products matching the filter
func (a *ProductAdapter) Search(ctx context.Context, filter repositories.EntitySearchFilter) ([]*entities.Product, error) {
	ds := a.db.Select(productColumns...).
		From("products").
		Where(goqu.Ex{"status": entities.ProductStatusActive})

	if filter.CraftType != "" {
		ds = ds.Where(goqu.Ex{"craft_type": filter.CraftType})
	}
	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		ds = ds.Where(goqu.Or(
			goqu.L("name::text ILIKE ?", pattern),
			goqu.L("description::text ILIKE ?", pattern),
			goqu.L("craft_type ILIKE ?", pattern),
		))
	}

	query, args, err := ds.Order(goqu.I("created_at").Desc()).
		Limit(uint(filter.Limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryProducts(ctx, query, args)
}

// ListByCraftType returns active products for one craft type, newest first
func (a *ProductAdapter) ListByCraftType(ctx context.Context, craftType string, limit int) ([]*entities.Product, error) {
	query, args, err := a.db.Select(productColumns...).
		From("products").
		Where(goqu.Ex{"status": entities.ProductStatusActive, "craft_type": craftType}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryProducts(ctx, query, args)
}

// CountActive returns the number of active products
func (a *ProductAdapter) CountActive(ctx context.Context) (int, error) {
	var count int
	err := a.client.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE status = 'active'`,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count products", err)
	}
	return count, nil
}

func (a *ProductAdapter) queryProducts(ctx context.Context, query string, args []interface{}) ([]*entities.Product, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query products", err)
	}
	defer rows.Close()

	var products []*entities.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan product", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func scanProduct(row rowScanner) (*entities.Product, error) {
	p := &entities.Product{}
	var nameJSON, descJSON []byte
	var imageURL sql.NullString

	err := row.Scan(
		&p.ID,
		&p.CraftsmanID,
		&nameJSON,
		&descJSON,
		&p.CraftType,
		&p.Category,
		&p.Price,
		&p.Inventory,
		&imageURL,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(nameJSON) > 0 {
		if err := json.Unmarshal(nameJSON, &p.Name); err != nil {
			return nil, fmt.Errorf("invalid name content map: %w", err)
		}
	}
	if len(descJSON) > 0 {
		if err := json.Unmarshal(descJSON, &p.Description); err != nil {
			return nil, fmt.Errorf("invalid description content map: %w", err)
		}
	}
	p.ImageURL = imageURL.String
	return p, nil
}
