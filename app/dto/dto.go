package dto

// APIResponse represents the standard API response structure
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail represents error details in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}

// PageRequest is the limit/offset pair used by list endpoints.
// A zero limit means the endpoint default.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}

// PageInfo echoes the effective paging of a list response
type PageInfo struct {
	Limit  int `json:"limit" example:"100"`
	Offset int `json:"offset" example:"0"`
	Count  int `json:"count" example:"42"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status                string `json:"status" example:"ok"`
	Service               string `json:"service" example:"affiliate-rhonat"`
	Version               string `json:"version" example:"1.0.0"`
	Environment           string `json:"environment" example:"production"`
	DataServiceConfigured bool   `json:"data_service_configured" example:"true"`
	DataServiceDriver     string `json:"data_service_driver" example:"rest"`
	Cache                 string `json:"cache" example:"healthy"`
	Timestamp             string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}
