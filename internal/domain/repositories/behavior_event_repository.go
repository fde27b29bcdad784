package repositories

import (
	"context"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// BehaviorEventRepository reads and appends to the append-only user
// behavior log. Events are never updated or deleted by the engine.
type BehaviorEventRepository interface {
	Append(ctx context.Context, event *entities.BehaviorEvent) error

	// CountByEntity returns per-entity counts of the given event types
	// since the given time, for the supplied entity IDs only.
	CountByEntity(ctx context.Context, entityIDs []string, eventTypes []string, since time.Time) (map[string]int, error)

	// TopEntities returns the entities of one type with the most events
	// of the given types since the given time.
	TopEntities(ctx context.Context, entityType entities.EntityType, eventTypes []string, since time.Time, limit int) ([]entities.EntityCount, error)

	// RecentEntityIDs lists entity IDs a user interacted with, newest
	// first, de-duplicated.
	RecentEntityIDs(ctx context.Context, userID string, eventTypes []string, limit int) ([]string, error)

	// CraftTypeAffinity orders craft types by a user's engagement event
	// counts, highest first. Craft types come from event metadata.
	CraftTypeAffinity(ctx context.Context, userID string, limit int) ([]string, error)

	// PreferredLanguage returns the language most often attached to a
	// user's search events, or "" when unknown.
	PreferredLanguage(ctx context.Context, userID string) (string, error)

	// PurchasePriceRange returns the min/max price over a user's
	// purchase events, or nil when the user has no priced purchases.
	PurchasePriceRange(ctx context.Context, userID string) (*entities.PriceRange, error)

	// TopQueries returns search queries by frequency within [since, until).
	TopQueries(ctx context.Context, since, until time.Time, limit int) ([]entities.QueryCount, error)

	// MatchingQueries returns search queries containing the given
	// substring (case-insensitive) since the given time, by frequency.
	MatchingQueries(ctx context.Context, substring string, since time.Time, limit int) ([]entities.QueryCount, error)

	// RecentQueriesByUser lists a user's own distinct recent search
	// queries, newest first.
	RecentQueriesByUser(ctx context.Context, userID string, limit int) ([]string, error)

	// CountSearches counts search events within [start, end).
	CountSearches(ctx context.Context, start, end time.Time) (int, error)

	// CountSearchClicks counts click events with metadata source=search
	// within [start, end).
	CountSearchClicks(ctx context.Context, start, end time.Time) (int, error)

	// TopCategories returns the categories attached to search events by
	// frequency within [start, end).
	TopCategories(ctx context.Context, start, end time.Time, limit int) ([]entities.QueryCount, error)

	// SearchesByDay buckets search events per calendar day within
	// [start, end).
	SearchesByDay(ctx context.Context, start, end time.Time) ([]entities.DayCount, error)
}
