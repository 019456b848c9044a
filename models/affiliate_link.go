package models

import (
	"time"

	"github.com/google/uuid"
)

// AffiliateLink is one affiliate's promotional link to one product.
// Code is the case sensitive token used in /go/{code}.
type AffiliateLink struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"size:64;not null;uniqueIndex:uk_affiliate_links_code" json:"code"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index:idx_affiliate_links_product_id" json:"product_id"`
	AffiliateID uuid.UUID `gorm:"type:uuid;not null;index:idx_affiliate_links_affiliate_id" json:"affiliate_id"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_affiliate_links_created_at" json:"created_at"`
}

// TableName returns the table name for AffiliateLink
func (AffiliateLink) TableName() string { return "affiliate_links" }

// AffiliateLinkFilter provides filter fields for repository queries
type AffiliateLinkFilter struct {
	ID            *uuid.UUID
	Code          *string
	ProductID     *uuid.UUID
	AffiliateID   *uuid.UUID
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
