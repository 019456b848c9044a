package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is sold by a brand and promoted through affiliate links.
// LandingURL may be stored without a scheme.
type Product struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BrandID           uuid.UUID `gorm:"type:uuid;not null;index:idx_products_brand_id" json:"brand_id"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Price             float64   `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	CommissionPercent float64   `gorm:"type:numeric(5,2);not null;default:0" json:"commission_percent"`
	LandingURL        *string   `gorm:"type:text" json:"landing_url,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_products_created_at" json:"created_at"`
}

// TableName returns the table name for Product
func (Product) TableName() string { return "products" }

// ProductFilter provides filter fields for repository queries
type ProductFilter struct {
	ID            *uuid.UUID
	BrandID       *uuid.UUID
	Name          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
