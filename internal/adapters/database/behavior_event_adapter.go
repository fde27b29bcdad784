package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

// BehaviorEventAdapter implements the BehaviorEventRepository interface
// over the append-only behavior_events table.
type BehaviorEventAdapter struct {
	client *postgres.Client
}

// NewBehaviorEventAdapter creates a new behavior event adapter
func NewBehaviorEventAdapter(client *postgres.Client) repositories.BehaviorEventRepository {
	return &BehaviorEventAdapter{client: client}
}

// Append writes one event. IDs and timestamps are filled when absent.
func (a *BehaviorEventAdapter) Append(ctx context.Context, event *entities.BehaviorEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return apperrors.NewInternalError("failed to encode event metadata", err)
	}

	query := `
		INSERT INTO behavior_events (id, user_id, event_type, entity_type, entity_id, metadata, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
	`

	_, err = a.client.DB().ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.EventType,
		string(event.EntityType),
		event.EntityID,
		metadata,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to append behavior event", err)
	}
	return nil
}

// CountByEntity returns per-entity event counts for the given IDs
func (a *BehaviorEventAdapter) CountByEntity(ctx context.Context, entityIDs []string, eventTypes []string, since time.Time) (map[string]int, error) {
	counts := make(map[string]int, len(entityIDs))
	if len(entityIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT entity_id, COUNT(*)
		FROM behavior_events
		WHERE entity_id = ANY($1)
		  AND event_type = ANY($2)
		  AND created_at >= $3
		GROUP BY entity_id
	`

	rows, err := a.client.DB().QueryContext(ctx, query, pq.Array(entityIDs), pq.Array(eventTypes), since)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count events by entity", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan entity count", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

// TopEntities returns the most-interacted entities of one type
func (a *BehaviorEventAdapter) TopEntities(ctx context.Context, entityType entities.EntityType, eventTypes []string, since time.Time, limit int) ([]entities.EntityCount, error) {
	query := `
		SELECT entity_id, COUNT(*)
		FROM behavior_events
		WHERE entity_type = $1
		  AND event_type = ANY($2)
		  AND created_at >= $3
		GROUP BY entity_id
		ORDER BY COUNT(*) DESC
		LIMIT $4
	`

	rows, err := a.client.DB().QueryContext(ctx, query, string(entityType), pq.Array(eventTypes), since, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query top entities", err)
	}
	defer rows.Close()

	var top []entities.EntityCount
	for rows.Next() {
		var ec entities.EntityCount
		if err := rows.Scan(&ec.EntityID, &ec.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan top entity", err)
		}
		top = append(top, ec)
	}
	return top, rows.Err()
}

// RecentEntityIDs lists entity IDs a user interacted with, newest first
func (a *BehaviorEventAdapter) RecentEntityIDs(ctx context.Context, userID string, eventTypes []string, limit int) ([]string, error) {
	query := `
		SELECT entity_id
		FROM behavior_events
		WHERE user_id = $1
		  AND event_type = ANY($2)
		  AND entity_id <> ''
		GROUP BY entity_id
		ORDER BY MAX(created_at) DESC
		LIMIT $3
	`
	return a.queryStrings(ctx, query, userID, pq.Array(eventTypes), limit)
}

// CraftTypeAffinity orders craft types by a user's engagement counts
func (a *BehaviorEventAdapter) CraftTypeAffinity(ctx context.Context, userID string, limit int) ([]string, error) {
	query := `
		SELECT metadata->>'craftType'
		FROM behavior_events
		WHERE user_id = $1
		  AND event_type = ANY($2)
		  AND COALESCE(metadata->>'craftType', '') <> ''
		GROUP BY metadata->>'craftType'
		ORDER BY COUNT(*) DESC
		LIMIT $3
	`
	return a.queryStrings(ctx, query, userID, pq.Array(entities.EngagementEventTypes), limit)
}

// PreferredLanguage returns the language most often attached to a user's
// search events
func (a *BehaviorEventAdapter) PreferredLanguage(ctx context.Context, userID string) (string, error) {
	query := `
		SELECT metadata->>'language'
		FROM behavior_events
		WHERE user_id = $1
		  AND event_type = 'search'
		  AND COALESCE(metadata->>'language', '') <> ''
		GROUP BY metadata->>'language'
		ORDER BY COUNT(*) DESC
		LIMIT 1
	`

	var language string
	err := a.client.DB().QueryRowContext(ctx, query, userID).Scan(&language)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewInternalError("failed to query preferred language", err)
	}
	return language, nil
}

// PurchasePriceRange returns the min/max price over a user's purchases
func (a *BehaviorEventAdapter) PurchasePriceRange(ctx context.Context, userID string) (*entities.PriceRange, error) {
	query := `
		SELECT MIN((metadata->>'price')::numeric), MAX((metadata->>'price')::numeric)
		FROM behavior_events
		WHERE user_id = $1
		  AND event_type = 'purchase'
		  AND COALESCE(metadata->>'price', '') <> ''
	`

	var min, max sql.NullFloat64
	err := a.client.DB().QueryRowContext(ctx, query, userID).Scan(&min, &max)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query purchase price range", err)
	}
	if !min.Valid || !max.Valid {
		return nil, nil
	}
	return &entities.PriceRange{Min: min.Float64, Max: max.Float64}, nil
}

// TopQueries returns search queries by frequency within [since, until)
func (a *BehaviorEventAdapter) TopQueries(ctx context.Context, since, until time.Time, limit int) ([]entities.QueryCount, error) {
	query := `
		SELECT metadata->>'query', COUNT(*)
		FROM behavior_events
		WHERE event_type = 'search'
		  AND COALESCE(metadata->>'query', '') <> ''
		  AND created_at >= $1 AND created_at < $2
		GROUP BY metadata->>'query'
		ORDER BY COUNT(*) DESC
		LIMIT $3
	`
	return a.queryCounts(ctx, query, since, until, limit)
}

// MatchingQueries returns search queries containing a substring
func (a *BehaviorEventAdapter) MatchingQueries(ctx context.Context, substring string, since time.Time, limit int) ([]entities.QueryCount, error) {
	query := `
		SELECT metadata->>'query', COUNT(*)
		FROM behavior_events
		WHERE event_type = 'search'
		  AND metadata->>'query' ILIKE $1
		  AND created_at >= $2
		GROUP BY metadata->>'query'
		ORDER BY COUNT(*) DESC
		LIMIT $3
	`
	return a.queryCounts(ctx, query, "%"+substring+"%", since, limit)
}

// RecentQueriesByUser lists a user's own distinct recent search queries
func (a *BehaviorEventAdapter) RecentQueriesByUser(ctx context.Context, userID string, limit int) ([]string, error) {
	query := `
		SELECT metadata->>'query'
		FROM behavior_events
		WHERE user_id = $1
		  AND event_type = 'search'
		  AND COALESCE(metadata->>'query', '') <> ''
		GROUP BY metadata->>'query'
		ORDER BY MAX(created_at) DESC
		LIMIT $2
	`
	return a.queryStrings(ctx, query, userID, limit)
}

// CountSearches counts search events within [start, end)
func (a *BehaviorEventAdapter) CountSearches(ctx context.Context, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM behavior_events
		WHERE event_type = 'search'
		  AND created_at >= $1 AND created_at < $2
	`

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, start, end).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count searches", err)
	}
	return count, nil
}

// CountSearchClicks counts clicks attributed to search results
func (a *BehaviorEventAdapter) CountSearchClicks(ctx context.Context, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM behavior_events
		WHERE event_type = 'click'
		  AND metadata->>'source' = 'search'
		  AND created_at >= $1 AND created_at < $2
	`

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, start, end).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count search clicks", err)
	}
	return count, nil
}

// TopCategories returns categories attached to search events by frequency
func (a *BehaviorEventAdapter) TopCategories(ctx context.Context, start, end time.Time, limit int) ([]entities.QueryCount, error) {
	query := `
		SELECT metadata->>'category', COUNT(*)
		FROM behavior_events
		WHERE event_type = 'search'
		  AND COALESCE(metadata->>'category', '') <> ''
		  AND created_at >= $1 AND created_at < $2
		GROUP BY metadata->>'category'
		ORDER BY COUNT(*) DESC
		LIMIT $3
	`
	return a.queryCounts(ctx, query, start, end, limit)
}

// SearchesByDay buckets search events per calendar day
func (a *BehaviorEventAdapter) SearchesByDay(ctx context.Context, start, end time.Time) ([]entities.DayCount, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM-DD'), COUNT(*)
		FROM behavior_events
		WHERE event_type = 'search'
		  AND created_at >= $1 AND created_at < $2
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query searches by day", err)
	}
	defer rows.Close()

	var days []entities.DayCount
	for rows.Next() {
		var dc entities.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan day count", err)
		}
		days = append(days, dc)
	}
	return days, rows.Err()
}

func (a *BehaviorEventAdapter) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query behavior events", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, apperrors.NewInternalError("failed to scan behavior event value", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (a *BehaviorEventAdapter) queryCounts(ctx context.Context, query string, args ...any) ([]entities.QueryCount, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query behavior events", err)
	}
	defer rows.Close()

	var counts []entities.QueryCount
	for rows.Next() {
		var qc entities.QueryCount
		if err := rows.Scan(&qc.Value, &qc.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan query count", err)
		}
		counts = append(counts, qc)
	}
	return counts, rows.Err()
}
