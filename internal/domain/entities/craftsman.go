package entities

import (
	"time"
)

// Craftsman verification statuses
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// Craftsman represents a craftsman profile on the platform
type Craftsman struct {
	ID                 string           `json:"id" db:"id"`
	Name               MultilingualText `json:"name" db:"-"`
	Bio                MultilingualText `json:"bio,omitempty" db:"-"`
	CraftSpecialties   []string         `json:"craft_specialties" db:"-"`
	WorkshopLocation   string           `json:"workshop_location" db:"workshop_location"`
	VerificationStatus string           `json:"verification_status" db:"verification_status"`
	ExperienceYears    int              `json:"experience_years" db:"experience_years"`
	ImageURL           string           `json:"image_url,omitempty" db:"image_url"`
	IsActive           bool             `json:"is_active" db:"is_active"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// IsVerified reports whether the craftsman passed platform verification
func (c *Craftsman) IsVerified() bool {
	return c.VerificationStatus == VerificationVerified
}

// HasSpecialty reports whether the craftsman lists the given craft type
func (c *Craftsman) HasSpecialty(craftType string) bool {
	for _, s := range c.CraftSpecialties {
		if s == craftType {
			return true
		}
	}
	return false
}
