package dto

// AttributionErrorResponse is the body of every non-redirect reply from /go.
// Details is only set for configuration errors.
type AttributionErrorResponse struct {
	Error   string   `json:"error" example:"Affiliate link not found."`
	Message string   `json:"message,omitempty" example:"connection refused"`
	Details []string `json:"details,omitempty"`
}

// SaleRecordRequest documents the accepted POST body. Handlers decode into a
// map and normalize field name variants, so this type is only used by swag.
type SaleRecordRequest struct {
	LinkID  string  `json:"link_id,omitempty" example:"3f0c5e0e-8a3b-4c1e-9c55-2b8d0f6f1a10"`
	OrderID string  `json:"order_id" example:"ORDER-1001"`
	Amount  float64 `json:"amount" example:"100"`
}

// SaleRecordResponse acknowledges a recorded sale
type SaleRecordResponse struct {
	Success bool `json:"success" example:"true"`
}
