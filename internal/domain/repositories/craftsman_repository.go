package repositories

import (
	"context"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// CraftsmanRepository provides access to craftsman profiles
type CraftsmanRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Craftsman, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Craftsman, error)

	// Search fetches active craftsmen matching the filter, capped at
	// filter.Limit, independent of final pagination.
	Search(ctx context.Context, filter EntitySearchFilter) ([]*entities.Craftsman, error)

	// SearchByLocation matches the workshop location by case-insensitive
	// substring.
	SearchByLocation(ctx context.Context, location string, limit int) ([]*entities.Craftsman, error)

	// CountActive returns the number of active craftsmen, used for the
	// per-entity-type category facet.
	CountActive(ctx context.Context) (int, error)

	// CraftTypeCounts explodes each craftsman's specialty list and sums
	// occurrences per craft type.
	CraftTypeCounts(ctx context.Context) ([]entities.Facet, error)

	// DistinctLocations lists distinct workshop locations matching the
	// given substring.
	DistinctLocations(ctx context.Context, match string, limit int) ([]string, error)
}
