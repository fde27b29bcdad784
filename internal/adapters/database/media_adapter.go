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

var mediaColumns = []any{
	"id", "title", "description", "file_type", "category", "craft_type",
	"url", "thumbnail_url", "status", "created_at", "updated_at",
}

// MediaAdapter implements the MediaRepository interface
type MediaAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMediaAdapter creates a new media adapter
func NewMediaAdapter(client *postgres.Client) repositories.MediaRepository {
	return &MediaAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a media item by ID
func (a *MediaAdapter) GetByID(ctx context.Context, id string) (*entities.MediaItem, error) {
	query, args, err := a.db.Select(mediaColumns...).
		From("media_items").
		Where(goqu.Ex{"id": id, "status": "active"}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	item, err := scanMediaItem(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("media item with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get media item", err)
	}
	return item, nil
}

// GetByIDs retrieves multiple media items by their IDs
func (a *MediaAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.MediaItem, error) {
	if len(ids) == 0 {
		return []*entities.MediaItem{}, nil
	}

	query, args, err := a.db.Select(mediaColumns...).
		From("media_items").
		Where(goqu.Ex{"id": ids, "status": "active"}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryMediaItems(ctx, query, args)
}

// Search fetches active media items matching the filter
func (a *MediaAdapter) Search(ctx context.Context, filter repositories.EntitySearchFilter) ([]*entities.MediaItem, error) {
	ds := a.db.Select(mediaColumns...).
		From("media_items").
		Where(goqu.Ex{"status": "active"})

	if filter.FileType != "" {
		ds = ds.Where(goqu.Ex{"file_type": filter.FileType})
	}
	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
	}
	if filter.CraftType != "" {
		ds = ds.Where(goqu.Ex{"craft_type": filter.CraftType})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		ds = ds.Where(goqu.Or(
			goqu.L("title::text ILIKE ?", pattern),
			goqu.L("description::text ILIKE ?", pattern),
		))
	}

	query, args, err := ds.Order(goqu.I("created_at").Desc()).
		Limit(uint(filter.Limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryMediaItems(ctx, query, args)
}

// CountActive returns the number of active media items
func (a *MediaAdapter) CountActive(ctx context.Context) (int, error) {
	var count int
	err := a.client.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM media_items WHERE status = 'active'`,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count media items", err)
	}
	return count, nil
}

// FileTypeCounts groups active media items by file type
func (a *MediaAdapter) FileTypeCounts(ctx context.Context) ([]entities.Facet, error) {
	rows, err := a.client.DB().QueryContext(ctx, `
		SELECT file_type, COUNT(*)
		FROM media_items
		WHERE status = 'active'
		GROUP BY file_type
		ORDER BY COUNT(*) DESC, file_type
	`)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count file types", err)
	}
	defer rows.Close()

	var facets []entities.Facet
	for rows.Next() {
		var f entities.Facet
		if err := rows.Scan(&f.Name, &f.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan file type count", err)
		}
		facets = append(facets, f)
	}
	return facets, rows.Err()
}

func (a *MediaAdapter) queryMediaItems(ctx context.Context, query string, args []interface{}) ([]*entities.MediaItem, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query media items", err)
	}
	defer rows.Close()

	var items []*entities.MediaItem
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan media item", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanMediaItem(row rowScanner) (*entities.MediaItem, error) {
	m := &entities.MediaItem{}
	var titleJSON, descJSON []byte
	var craftType, thumbnailURL sql.NullString

	err := row.Scan(
		&m.ID,
		&titleJSON,
		&descJSON,
		&m.FileType,
		&m.Category,
		&craftType,
		&m.URL,
		&thumbnailURL,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(titleJSON) > 0 {
		if err := json.Unmarshal(titleJSON, &m.Title); err != nil {
			return nil, fmt.Errorf("invalid title content map: %w", err)
		}
	}
	if len(descJSON) > 0 {
		if err := json.Unmarshal(descJSON, &m.Description); err != nil {
			return nil, fmt.Errorf("invalid description content map: %w", err)
		}
	}
	m.CraftType = craftType.String
	m.ThumbnailURL = thumbnailURL.String
	return m, nil
}
