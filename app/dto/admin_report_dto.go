package dto

import "github.com/amirphl/affiliate-rhonat/models"

// AdminAggregatesResponse groups clicks, sales and revenue by brand, product and affiliate
type AdminAggregatesResponse struct {
	ByBrand     []models.BrandAggregate     `json:"by_brand"`
	ByProduct   []models.ProductAggregate   `json:"by_product"`
	ByAffiliate []models.AffiliateAggregate `json:"by_affiliate"`
}

// AdminTopAffiliatesRequest ranks affiliates by one metric
type AdminTopAffiliatesRequest struct {
	Metric string `query:"metric" validate:"omitempty,oneof=clicks sales revenue"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
}

type TopAffiliateDTO struct {
	Rank        int     `json:"rank" example:"1"`
	AffiliateID string  `json:"affiliate_id"`
	DisplayName string  `json:"display_name"`
	Clicks      int64   `json:"clicks"`
	Sales       int64   `json:"sales"`
	Revenue     float64 `json:"revenue"`
}

type AdminTopAffiliatesResponse struct {
	Metric string            `json:"metric" example:"revenue"`
	Items  []TopAffiliateDTO `json:"items"`
}

// AdminSalesExportRequest is a half open [from, to) range.
// Values are YYYY-MM-DD or RFC3339.
type AdminSalesExportRequest struct {
	From string `query:"from" validate:"required"`
	To   string `query:"to" validate:"required"`
}
