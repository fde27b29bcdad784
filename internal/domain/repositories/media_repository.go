package repositories

import (
	"context"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// MediaRepository provides access to media items
type MediaRepository interface {
	GetByID(ctx context.Context, id string) (*entities.MediaItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entities.MediaItem, error)
	Search(ctx context.Context, filter EntitySearchFilter) ([]*entities.MediaItem, error)
	CountActive(ctx context.Context) (int, error)

	// FileTypeCounts groups active media items by file type.
	FileTypeCounts(ctx context.Context) ([]entities.Facet, error)
}
