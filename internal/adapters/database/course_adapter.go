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

var courseColumns = []any{
	"id", "craftsman_id", "title", "description", "craft_type", "category",
	"price", "duration_hours", "language", "image_url", "status",
	"created_at", "updated_at",
}

// CourseAdapter implements the CourseRepository interface
type CourseAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCourseAdapter creates a new course adapter
func NewCourseAdapter(client *postgres.Client) repositories.CourseRepository {
	return &CourseAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a course by ID
func (a *CourseAdapter) GetByID(ctx context.Context, id string) (*entities.Course, error) {
	query, args, err := a.db.Select(courseColumns...).
		From("courses").
		Where(goqu.Ex{"id": id, "status": entities.CourseStatusActive}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	course, err := scanCourse(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("course with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get course", err)
	}
	return course, nil
}

// GetByIDs retrieves multiple courses by their IDs
func (a *CourseAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Course, error) {
	if len(ids) == 0 {
		return []*entities.Course{}, nil
	}

	query, args, err := a.db.Select(courseColumns...).
		From("courses").
		Where(goqu.Ex{"id": ids, "status": entities.CourseStatusActive}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryCourses(ctx, query, args)
}

// Search fetches active courses matching the filter
func (a *CourseAdapter) Search(ctx context.Context, filter repositories.EntitySearchFilter) ([]*entities.Course, error) {
	ds := a.db.Select(courseColumns...).
		From("courses").
		Where(goqu.Ex{"status": entities.CourseStatusActive})

	if filter.CraftType != "" {
		ds = ds.Where(goqu.Ex{"craft_type": filter.CraftType})
	}
	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		ds = ds.Where(goqu.Or(
			goqu.L("title::text ILIKE ?", pattern),
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

	return a.queryCourses(ctx, query, args)
}

// ListByCraftType returns active courses for one craft type, newest first
func (a *CourseAdapter) ListByCraftType(ctx context.Context, craftType string, limit int) ([]*entities.Course, error) {
	query, args, err := a.db.Select(courseColumns...).
		From("courses").
		Where(goqu.Ex{"status": entities.CourseStatusActive, "craft_type": craftType}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryCourses(ctx, query, args)
}

// ListLatest returns the newest active courses
func (a *CourseAdapter) ListLatest(ctx context.Context, limit int) ([]*entities.Course, error) {
	query, args, err := a.db.Select(courseColumns...).
		From("courses").
		Where(goqu.Ex{"status": entities.CourseStatusActive}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryCourses(ctx, query, args)
}

// CountActive returns the number of active courses
func (a *CourseAdapter) CountActive(ctx context.Context) (int, error) {
	var count int
	err := a.client.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM courses WHERE status = 'active'`,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count courses", err)
	}
	return count, nil
}

func (a *CourseAdapter) queryCourses(ctx context.Context, query string, args []interface{}) ([]*entities.Course, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query courses", err)
	}
	defer rows.Close()

	var courses []*entities.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan course", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func scanCourse(row rowScanner) (*entities.Course, error) {
	c := &entities.Course{}
	var titleJSON, descJSON []byte
	var imageURL sql.NullString

	err := row.Scan(
		&c.ID,
		&c.CraftsmanID,
		&titleJSON,
		&descJSON,
		&c.CraftType,
		&c.Category,
		&c.Price,
		&c.DurationHours,
		&c.Language,
		&imageURL,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(titleJSON) > 0 {
		if err := json.Unmarshal(titleJSON, &c.Title); err != nil {
			return nil, fmt.Errorf("invalid title content map: %w", err)
		}
	}
	if len(descJSON) > 0 {
		if err := json.Unmarshal(descJSON, &c.Description); err != nil {
			return nil, fmt.Errorf("invalid description content map: %w", err)
		}
	}
	c.ImageURL = imageURL.String
	return c, nil
}
