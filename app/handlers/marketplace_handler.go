package handlers

import (
	"github.com/amirphl/affiliate-rhonat/app/dto"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// MarketplaceHandlerInterface defines the marketplace endpoints
type MarketplaceHandlerInterface interface {
	ListProducts(c fiber.Ctx) error
}

type MarketplaceHandler struct {
	flow      businessflow.MarketplaceFlow
	validator *validator.Validate
}

func NewMarketplaceHandler(flow businessflow.MarketplaceFlow) MarketplaceHandlerInterface {
	return &MarketplaceHandler{flow: flow, validator: validator.New()}
}

// ListProducts returns products ranked by gravity
// @Summary Marketplace Products
// @Tags Marketplace
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of products (default 50, max 200)"
// @Success 200 {object} dto.APIResponse{data=dto.MarketplaceProductsResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/marketplace/products [get]
func (h *MarketplaceHandler) ListProducts(c fiber.Ctx) error {
	var req dto.MarketplaceProductsRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext(c, "/api/v1/marketplace/products", 0)
	defer cancel()

	res, err := h.flow.ListProducts(ctx, req.Limit)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("list marketplace products failed")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve products", "LIST_MARKETPLACE_PRODUCTS_FAILED", nil)
	}
	return c.JSON(dto.APIResponse{Success: true, Message: "Products retrieved", Data: res})
}
