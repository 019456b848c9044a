package dto

// AffiliateStatsRequest selects whose stats to read. Only admins may set AffiliateID.
type AffiliateStatsRequest struct {
	AffiliateID string `query:"affiliate_id" validate:"omitempty,uuid"`
}

// AffiliateListRequest pages through an affiliate's clicks or conversions
type AffiliateListRequest struct {
	AffiliateStatsRequest
	PageRequest
}

type AffiliateStatsResponse struct {
	AffiliateID    string  `json:"affiliate_id" example:"3f0c5e0e-8a3b-4c1e-9c55-2b8d0f6f1a10"`
	Clicks         int64   `json:"clicks" example:"120"`
	Sales          int64   `json:"sales" example:"6"`
	Revenue        float64 `json:"revenue" example:"600"`
	Commission     float64 `json:"commission" example:"180"`
	ConversionRate float64 `json:"conversion_rate" example:"5"`
	EPC            float64 `json:"epc" example:"5"`
}

type ClickDetailDTO struct {
	ClickID     string  `json:"click_id"`
	Date        string  `json:"date" example:"2024-01-15T10:30:00Z"`
	ProductName string  `json:"product_name"`
	BrandName   *string `json:"brand_name"`
	LinkCode    string  `json:"link_code"`
	LandingURL  *string `json:"landing_url"`
	IP          string  `json:"ip"`
	Referer     *string `json:"referer"`
	UserAgent   string  `json:"user_agent"`
}

type AffiliateClicksResponse struct {
	AffiliateID string           `json:"affiliate_id"`
	Items       []ClickDetailDTO `json:"items"`
	Page        PageInfo         `json:"page"`
}

type ConversionDTO struct {
	SaleID      string  `json:"sale_id"`
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"`
	Commission  float64 `json:"commission"`
	Date        string  `json:"date" example:"2024-01-15T10:30:00Z"`
	LinkCode    string  `json:"link_code"`
	ProductName string  `json:"product_name"`
}

type ConversionSummary struct {
	TotalConversions int64   `json:"total_conversions" example:"6"`
	TotalRevenue     float64 `json:"total_revenue" example:"600"`
	TotalCommission  float64 `json:"total_commission" example:"180"`
	ConversionRate   float64 `json:"conversion_rate" example:"5"`
}

type AffiliateConversionsResponse struct {
	AffiliateID string            `json:"affiliate_id"`
	Summary     ConversionSummary `json:"summary"`
	Items       []ConversionDTO   `json:"items"`
	Page        PageInfo          `json:"page"`
}
