package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

var craftsmanColumns = []any{
	"id", "name", "bio", "craft_specialties", "workshop_location",
	"verification_status", "experience_years", "image_url", "is_active",
	"created_at", "updated_at",
}

// CraftsmanAdapter implements the CraftsmanRepository interface
type CraftsmanAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCraftsmanAdapter creates a new craftsman adapter
func NewCraftsmanAdapter(client *postgres.Client) repositories.CraftsmanRepository {
	return &CraftsmanAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a craftsman by ID
func (a *CraftsmanAdapter) GetByID(ctx context.Context, id string) (*entities.Craftsman, error) {
	query, args, err := a.db.Select(craftsmanColumns...).
		From("craftsmen").
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	craftsman, err := scanCraftsman(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("craftsman with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get craftsman", err)
	}
	return craftsman, nil
}

// GetByIDs retrieves multiple craftsmen by their IDs
func (a *CraftsmanAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Craftsman, error) {
	if len(ids) == 0 {
		return []*entities.Craftsman{}, nil
	}

	query, args, err := a.db.Select(craftsmanColumns...).
		From("craftsmen").
		Where(goqu.Ex{"id": ids, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryCraftsmen(ctx, query, args)
}

// Search fetches active craftsmen matching the filter
func (a *CraftsmanAdapter) Search(ctx context.Context, filter repositories.EntitySearchFilter) ([]*entities.Craftsman, error) {
	ds := a.db.Select(craftsmanColumns...).
		From("craftsmen").
		Where(goqu.Ex{"is_active": true})

	if filter.CraftType != "" {
		ds = ds.Where(goqu.L("craft_specialties @> ?", pq.Array([]string{filter.CraftType})))
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		ds = ds.Where(goqu.Or(
			goqu.L("name::text ILIKE ?", pattern),
			goqu.L("bio::text ILIKE ?", pattern),
			goqu.L("array_to_string(craft_specialties, ' ') ILIKE ?", pattern),
		))
	}

	query, args, err := ds.Order(goqu.I("created_at").Desc()).
		Limit(uint(filter.Limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryCraftsmen(ctx, query, args)
}

// SearchByLocation matches the workshop location by substring
func (a *CraftsmanAdapter) SearchByLocation(ctx context.Context, location string, limit int) ([]*entities.Craftsman, error) {
	query, args, err := a.db.Select(craftsmanColumns...).
		From("craftsmen").
		Where(
			goqu.Ex{"is_active": true},
			goqu.L("workshop_location ILIKE ?", "%"+location+"%"),
		).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryCraftsmen(ctx, query, args)
}

// CountActive returns the number of active craftsmen
func (a *CraftsmanAdapter) CountActive(ctx context.Context) (int, error) {
	var count int
	err := a.client.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM craftsmen WHERE is_active = true`,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count craftsmen", err)
	}
	return count, nil
}

// CraftTypeCounts explodes specialty lists and sums per craft type
func (a *CraftsmanAdapter) CraftTypeCounts(ctx context.Context) ([]entities.Facet, error) {
	rows, err := a.client.DB().QueryContext(ctx, `
		SELECT specialty, COUNT(*)
		FROM craftsmen, unnest(craft_specialties) AS specialty
		WHERE is_active = true
		GROUP BY specialty
		ORDER BY COUNT(*) DESC, specialty
	`)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count craft types", err)
	}
	defer rows.Close()

	var facets []entities.Facet
	for rows.Next() {
		var f entities.Facet
		if err := rows.Scan(&f.Name, &f.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan craft type count", err)
		}
		facets = append(facets, f)
	}
	return facets, rows.Err()
}

// DistinctLocations lists distinct workshop locations matching a substring
func (a *CraftsmanAdapter) DistinctLocations(ctx context.Context, match string, limit int) ([]string, error) {
	query, args, err := a.db.Select(goqu.DISTINCT("workshop_location")).
		From("craftsmen").
		Where(
			goqu.Ex{"is_active": true},
			goqu.C("workshop_location").Neq(""),
			goqu.L("workshop_location ILIKE ?", "%"+match+"%"),
		).
		Order(goqu.I("workshop_location").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list locations", err)
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, apperrors.NewInternalError("failed to scan location", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func (a *CraftsmanAdapter) queryCraftsmen(ctx context.Context, query string, args []interface{}) ([]*entities.Craftsman, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query craftsmen", err)
	}
	defer rows.Close()

	var craftsmen []*entities.Craftsman
	for rows.Next() {
		craftsman, err := scanCraftsman(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan craftsman", err)
		}
		craftsmen = append(craftsmen, craftsman)
	}
	return craftsmen, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCraftsman(row rowScanner) (*entities.Craftsman, error) {
	c := &entities.Craftsman{}
	var nameJSON, bioJSON []byte
	var imageURL sql.NullString

	err := row.Scan(
		&c.ID,
		&nameJSON,
		&bioJSON,
		pq.Array(&c.CraftSpecialties),
		&c.WorkshopLocation,
		&c.VerificationStatus,
		&c.ExperienceYears,
		&imageURL,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(nameJSON) > 0 {
		if err := json.Unmarshal(nameJSON, &c.Name); err != nil {
			return nil, fmt.Errorf("invalid name content map: %w", err)
		}
	}
	if len(bioJSON) > 0 {
		if err := json.Unmarshal(bioJSON, &c.Bio); err != nil {
			return nil, fmt.Errorf("invalid bio content map: %w", err)
		}
	}
	c.ImageURL = imageURL.String
	return c, nil
}
