package dto

type MarketplaceProductsRequest struct {
	Limit int `query:"limit" validate:"min=0,max=200"`
}

// MarketplaceProductDTO is one product ranked by gravity
type MarketplaceProductDTO struct {
	ProductID         string  `json:"product_id"`
	Name              string  `json:"name" example:"Course"`
	Price             float64 `json:"price" example:"49.9"`
	CommissionPercent float64 `json:"commission_percent" example:"30"`
	BrandName         *string `json:"brand_name"`
	GravityScore      int64   `json:"gravity_score" example:"4"`
	Sales30d          int64   `json:"sales_30d" example:"12"`
	Clicks30d         int64   `json:"clicks_30d" example:"340"`
}

type MarketplaceProductsResponse struct {
	Items []MarketplaceProductDTO `json:"items"`
	Count int                     `json:"count"`
}
