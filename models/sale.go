package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is a recorded conversion. Commission is computed from the product
// rate at write time and stored, so later rate changes leave it untouched.
// OrderID is not unique.
type Sale struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LinkID     uuid.UUID `gorm:"type:uuid;not null;index:idx_sales_link_id" json:"link_id"`
	OrderID    string    `gorm:"size:255;not null;index:idx_sales_order_id" json:"order_id"`
	Amount     float64   `gorm:"type:double precision;not null" json:"amount"`
	Commission float64   `gorm:"type:double precision;not null" json:"commission"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sales_created_at" json:"created_at"`
}

// TableName returns the table name for Sale
func (Sale) TableName() string { return "sales" }

// SaleFilter provides filter fields for repository queries
type SaleFilter struct {
	ID            *uuid.UUID
	LinkID        *uuid.UUID
	LinkIDs       []uuid.UUID
	OrderID       *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
