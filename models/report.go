package models

import (
	"time"

	"github.com/google/uuid"
)

// AffiliateStats is the raw row of get_affiliate_stats_enriched
type AffiliateStats struct {
	Clicks     int64   `json:"clicks"`
	Sales      int64   `json:"sales"`
	Revenue    float64 `json:"revenue"`
	Commission float64 `json:"commission"`
}

// ClickDetail is one row of get_affiliate_clicks_details
type ClickDetail struct {
	ClickID     uuid.UUID `json:"click_id"`
	CreatedAt   time.Time `json:"created_at"`
	ProductName string    `json:"product_name"`
	BrandName   *string   `json:"brand_name,omitempty"`
	LinkCode    string    `json:"link_code"`
	LandingURL  *string   `json:"landing_url,omitempty"`
	IP          string    `json:"ip"`
	Referer     *string   `json:"referer,omitempty"`
	UserAgent   string    `json:"user_agent"`
}

// Conversion is one row of get_affiliate_conversions
type Conversion struct {
	SaleID      uuid.UUID `json:"sale_id"`
	OrderID     string    `json:"order_id"`
	Amount      float64   `json:"amount"`
	Commission  float64   `json:"commission"`
	CreatedAt   time.Time `json:"created_at"`
	LinkCode    string    `json:"link_code"`
	ProductName string    `json:"product_name"`
}

// BrandAggregate, ProductAggregate and AffiliateAggregate are the sections
// of admin_aggregates
type BrandAggregate struct {
	BrandID   uuid.UUID `json:"brand_id"`
	BrandName string    `json:"brand_name"`
	Clicks    int64     `json:"clicks"`
	Sales     int64     `json:"sales"`
	Revenue   float64   `json:"revenue"`
}

type ProductAggregate struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	BrandID     uuid.UUID `json:"brand_id"`
	Clicks      int64     `json:"clicks"`
	Sales       int64     `json:"sales"`
	Revenue     float64   `json:"revenue"`
}

type AffiliateAggregate struct {
	AffiliateID uuid.UUID `json:"affiliate_id"`
	DisplayName string    `json:"display_name"`
	UserID      uuid.UUID `json:"user_id"`
	Clicks      int64     `json:"clicks"`
	Sales       int64     `json:"sales"`
	Revenue     float64   `json:"revenue"`
}

type AdminAggregates struct {
	ByBrand     []BrandAggregate     `json:"by_brand"`
	ByProduct   []ProductAggregate   `json:"by_product"`
	ByAffiliate []AffiliateAggregate `json:"by_affiliate"`
}

// ProductGravity is one row of the product_gravity view. GravityScore counts
// distinct affiliates with a sale in the last 30 days.
type ProductGravity struct {
	ProductID         uuid.UUID `json:"product_id"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	CommissionPercent float64   `json:"commission_percent"`
	BrandName         string    `json:"brand_name"`
	GravityScore      int64     `json:"gravity_score"`
	Sales30d          int64     `gorm:"column:sales_30d" json:"sales_30d"`
	Clicks30d         int64     `gorm:"column:clicks_30d" json:"clicks_30d"`
}

// SaleExportRow is one row of get_sales_export
type SaleExportRow struct {
	CreatedAt     time.Time `json:"created_at"`
	OrderID       string    `json:"order_id"`
	LinkCode      string    `json:"link_code"`
	ProductName   string    `json:"product_name"`
	BrandName     string    `json:"brand_name"`
	AffiliateName string    `json:"affiliate_name"`
	Amount        float64   `json:"amount"`
	Commission    float64   `json:"commission"`
}
