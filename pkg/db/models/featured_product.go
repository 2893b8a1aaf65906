package models

import (
	"time"

	"github.com/google/uuid"
)

// FeaturedProduct is a locally curated part highlighted on the home view.
// The catalog itself lives behind the remote API; only these picks are ours.
type FeaturedProduct struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PartNumber  string    `gorm:"column:part_number;not null"`
	Description string    `gorm:"column:description;not null"`
	ImageURL    *string   `gorm:"column:image_url"`
	Position    int       `gorm:"column:position;not null;default:0"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name regardless of gorm pluralization settings.
func (FeaturedProduct) TableName() string {
	return "featured_products"
}
