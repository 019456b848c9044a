package models

import (
	"time"

	"github.com/google/uuid"
)

type Brand struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string     `gorm:"size:255;not null" json:"name"`
	Domain  *string    `gorm:"size:255" json:"domain,omitempty"`
	OwnerID *uuid.UUID `gorm:"type:uuid;index:idx_brands_owner_id" json:"owner_id,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

// TableName returns the table name for Brand
func (Brand) TableName() string { return "brands" }

type BrandFilter struct {
	ID      *uuid.UUID
	IDs     []uuid.UUID
	Name    *string
	OwnerID *uuid.UUID
}
