package loaders

import (
	"context"
	"fmt"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
)

// Loaders batches entity lookups when event-derived ID lists are joined
// back to current entity state (trending, recommendations).
type Loaders struct {
	Craftsman *dataloader.Loader[string, *entities.Craftsman]
	Course    *dataloader.Loader[string, *entities.Course]
	Product   *dataloader.Loader[string, *entities.Product]
	Media     *dataloader.Loader[string, *entities.MediaItem]
}

// NewLoaders creates batched loaders over the entity repositories
func NewLoaders(
	craftsmanRepo repositories.CraftsmanRepository,
	courseRepo repositories.CourseRepository,
	productRepo repositories.ProductRepository,
	mediaRepo repositories.MediaRepository,
) *Loaders {
	return &Loaders{
		Craftsman: newEntityLoader(craftsmanRepo.GetByIDs, func(c *entities.Craftsman) string { return c.ID }),
		Course:    newEntityLoader(courseRepo.GetByIDs, func(c *entities.Course) string { return c.ID }),
		Product:   newEntityLoader(productRepo.GetByIDs, func(p *entities.Product) string { return p.ID }),
		Media:     newEntityLoader(mediaRepo.GetByIDs, func(m *entities.MediaItem) string { return m.ID }),
	}
}

func newEntityLoader[T any](
	fetch func(ctx context.Context, ids []string) ([]T, error),
	idOf func(T) string,
) *dataloader.Loader[string, T] {
	return dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[T] {
		results := make([]*dataloader.Result[T], len(keys))
		fetched, err := fetch(ctx, keys)

		byID := make(map[string]T, len(fetched))
		if err == nil {
			for _, item := range fetched {
				byID[idOf(item)] = item
			}
		}

		for i, key := range keys {
			if err != nil {
				results[i] = &dataloader.Result[T]{Error: err}
			} else if item, ok := byID[key]; ok {
				results[i] = &dataloader.Result[T]{Data: item}
			} else {
				results[i] = &dataloader.Result[T]{Error: fmt.Errorf("entity %s not found", key)}
			}
		}
		return results
	})
}
