package models

import (
	"time"

	"github.com/google/uuid"
)

// Affiliate is the promoter profile of an authenticated user
type Affiliate struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_affiliates_user_id" json:"user_id"`
	DisplayName string    `gorm:"size:255;not null" json:"display_name"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

// TableName returns the table name for Affiliate
func (Affiliate) TableName() string { return "affiliates" }

type AffiliateFilter struct {
	ID          *uuid.UUID
	UserID      *uuid.UUID
	DisplayName *string
}
