package handlers

import (
	"github.com/amirphl/affiliate-rhonat/app/dto"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// AffiliateStatsHandlerInterface defines the affiliate dashboard endpoints
type AffiliateStatsHandlerInterface interface {
	GetStats(c fiber.Ctx) error
	ListClicks(c fiber.Ctx) error
	ListConversions(c fiber.Ctx) error
}

type AffiliateStatsHandler struct {
	flow      businessflow.AffiliateStatsFlow
	validator *validator.Validate
}

func NewAffiliateStatsHandler(flow businessflow.AffiliateStatsFlow) AffiliateStatsHandlerInterface {
	return &AffiliateStatsHandler{flow: flow, validator: validator.New()}
}

// GetStats returns the caller's clicks, sales, revenue and ratios
// @Summary Affiliate Stats
// @Tags Affiliate
// @Produce json
// @Security BearerAuth
// @Param affiliate_id query string false "Affiliate id (admins only)"
// @Success 200 {object} dto.APIResponse{data=dto.AffiliateStatsResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/affiliate/stats [get]
func (h *AffiliateStatsHandler) GetStats(c fiber.Ctx) error {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}
	var req dto.AffiliateStatsRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext(c, "/api/v1/affiliate/stats", 0)
	defer cancel()

	res, err := h.flow.GetStats(ctx, viewer, requestedAffiliate(req.AffiliateID))
	if err != nil {
		return h.flowError(c, err, "Failed to retrieve affiliate stats", "GET_AFFILIATE_STATS_FAILED")
	}
	return c.JSON(dto.APIResponse{Success: true, Message: "Affiliate stats retrieved", Data: res})
}

// ListClicks pages through the caller's clicks, newest first
// @Summary Affiliate Click Details
// @Tags Affiliate
// @Produce json
// @Security BearerAuth
// @Param affiliate_id query string false "Affiliate id (admins only)"
// @Param limit query int false "Page size (default 100, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.APIResponse{data=dto.AffiliateClicksResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/affiliate/clicks [get]
func (h *AffiliateStatsHandler) ListClicks(c fiber.Ctx) error {
	viewer, req, err := h.listRequest(c)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	ctx, cancel := createRequestContext(c, "/api/v1/affiliate/clicks", 0)
	defer cancel()

	res, err := h.flow.ListClicks(ctx, viewer, requestedAffiliate(req.AffiliateID), req.Limit, req.Offset)
	if err != nil {
		return h.flowError(c, err, "Failed to retrieve clicks", "LIST_AFFILIATE_CLICKS_FAILED")
	}
	return c.JSON(dto.APIResponse{Success: true, Message: "Clicks retrieved", Data: res})
}

// ListConversions pages through the caller's sales with a summary
// @Summary Affiliate Conversions
// @Tags Affiliate
// @Produce json
// @Security BearerAuth
// @Param affiliate_id query string false "Affiliate id (admins only)"
// @Param limit query int false "Page size (default 100, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.APIResponse{data=dto.AffiliateConversionsResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/affiliate/conversions [get]
func (h *AffiliateStatsHandler) ListConversions(c fiber.Ctx) error {
	viewer, req, err := h.listRequest(c)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	ctx, cancel := createRequestContext(c, "/api/v1/affiliate/conversions", 0)
	defer cancel()

	res, err := h.flow.ListConversions(ctx, viewer, requestedAffiliate(req.AffiliateID), req.Limit, req.Offset)
	if err != nil {
		return h.flowError(c, err, "Failed to retrieve conversions", "LIST_AFFILIATE_CONVERSIONS_FAILED")
	}
	return c.JSON(dto.APIResponse{Success: true, Message: "Conversions retrieved", Data: res})
}

// listRequest returns a nil request when it has already written an error response
func (h *AffiliateStatsHandler) listRequest(c fiber.Ctx) (businessflow.Viewer, *dto.AffiliateListRequest, error) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return viewer, nil, errorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}
	var req dto.AffiliateListRequest
	if err := c.Bind().Query(&req); err != nil {
		return viewer, nil, errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return viewer, nil, errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}
	return viewer, &req, nil
}

func (h *AffiliateStatsHandler) flowError(c fiber.Ctx, err error, message, code string) error {
	if businessflow.IsAffiliateNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Affiliate not found", "AFFILIATE_NOT_FOUND", nil)
	}
	logging.Error().Err(err).Str("path", c.Path()).Msg(message)
	return errorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}

// requestedAffiliate parses an already validated affiliate_id
func requestedAffiliate(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
