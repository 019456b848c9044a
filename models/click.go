package models

import (
	"time"

	"github.com/google/uuid"
)

// Click is one successful redirect through an affiliate link.
// Rows are append only.
type Click struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LinkID         uuid.UUID `gorm:"type:uuid;not null;index:idx_clicks_link_id" json:"link_id"`
	IP             string    `gorm:"size:64;not null" json:"ip"`
	UserAgent      string    `gorm:"type:text;not null" json:"user_agent"`
	Referer        *string   `gorm:"type:text" json:"referer,omitempty"`
	AcceptLanguage *string   `gorm:"type:text" json:"accept_language,omitempty"`
	AcceptEncoding *string   `gorm:"type:text" json:"accept_encoding,omitempty"`
	Fingerprint    *string   `gorm:"size:64;index:idx_clicks_fingerprint" json:"fingerprint,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_clicks_created_at" json:"created_at"`
}

// TableName returns the table name for Click
func (Click) TableName() string { return "clicks" }

// ClickFilter provides filter fields for repository queries
type ClickFilter struct {
	ID            *uuid.UUID
	LinkID        *uuid.UUID
	LinkIDs       []uuid.UUID
	IP            *string
	Fingerprint   *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
