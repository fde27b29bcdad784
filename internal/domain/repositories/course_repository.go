package repositories

import (
	"context"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// CourseRepository provides access to craft courses
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Course, error)
	Search(ctx context.Context, filter EntitySearchFilter) ([]*entities.Course, error)

	// ListByCraftType returns active courses for one craft type, newest
	// first.
	ListByCraftType(ctx context.Context, craftType string, limit int) ([]*entities.Course, error)

	// ListLatest returns the newest active courses.
	ListLatest(ctx context.Context, limit int) ([]*entities.Course, error)

	CountActive(ctx context.Context) (int, error)
}
