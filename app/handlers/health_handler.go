package handlers

import (
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/gofiber/fiber/v3"
)

// CacheStatus reports the state of the optional link cache
type CacheStatus interface {
	Status() string
}

type HealthHandlerInterface interface {
	Check(c fiber.Ctx) error
}

type HealthHandler struct {
	deployment  config.DeploymentConfig
	dataService config.DataServiceConfig
	cache       CacheStatus
}

func NewHealthHandler(deployment config.DeploymentConfig, dataService config.DataServiceConfig, cache CacheStatus) HealthHandlerInterface {
	return &HealthHandler{deployment: deployment, dataService: dataService, cache: cache}
}

// Check reports liveness plus configuration and cache state
// @Summary Health Check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /api/v1/health [get]
func (h *HealthHandler) Check(c fiber.Ctx) error {
	cache := "disabled"
	if h.cache != nil {
		cache = h.cache.Status()
	}
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: dto.HealthResponse{
			Status:                "ok",
			Service:               h.deployment.ServiceName,
			Version:               h.deployment.Version,
			Environment:           h.deployment.Environment,
			DataServiceConfigured: h.dataService.Configured(),
			DataServiceDriver:     h.dataService.Driver,
			Cache:                 cache,
			Timestamp:             utils.UTCNow().Format(time.RFC3339),
		},
	})
}
