package entities

import (
	"time"
)

// Product statuses
const (
	ProductStatusActive   = "active"
	ProductStatusSoldOut  = "sold_out"
	ProductStatusArchived = "archived"
)

// Product represents a craft product sold on the marketplace
type Product struct {
	ID          string           `json:"id" db:"id"`
	CraftsmanID string           `json:"craftsman_id" db:"craftsman_id"`
	Name        MultilingualText `json:"name" db:"-"`
	Description MultilingualText `json:"description,omitempty" db:"-"`
	CraftType   string           `json:"craft_type" db:"craft_type"`
	Category    string           `json:"category" db:"category"`
	Price       float64          `json:"price" db:"price"`
	Inventory   int              `json:"inventory" db:"inventory"`
	ImageURL    string           `json:"image_url,omitempty" db:"image_url"`
	Status      string           `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// InStock reports whether the product can currently be ordered
func (p *Product) InStock() bool {
	return p.Inventory > 0
}
