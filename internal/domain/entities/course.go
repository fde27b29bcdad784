package entities

import (
	"time"
)

// Course statuses
const (
	CourseStatusActive   = "active"
	CourseStatusDraft    = "draft"
	CourseStatusArchived = "archived"
)

// Course represents a craft course offered by a craftsman
type Course struct {
	ID            string           `json:"id" db:"id"`
	CraftsmanID   string           `json:"craftsman_id" db:"craftsman_id"`
	Title         MultilingualText `json:"title" db:"-"`
	Description   MultilingualText `json:"description,omitempty" db:"-"`
	CraftType     string           `json:"craft_type" db:"craft_type"`
	Category      string           `json:"category" db:"category"`
	Price         float64          `json:"price" db:"price"`
	DurationHours float64          `json:"duration_hours" db:"duration_hours"`
	Language      string           `json:"language" db:"language"`
	ImageURL      string           `json:"image_url,omitempty" db:"image_url"`
	Status        string           `json:"status" db:"status"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}
