package repositories

import (
	"context"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// ProductRepository provides access to craft products
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Product, error)
	Search(ctx context.Context, filter EntitySearchFilter) ([]*entities.Product, error)
	ListByCraftType(ctx context.Context, craftType string, limit int) ([]*entities.Product, error)
	CountActive(ctx context.Context) (int, error)
}
