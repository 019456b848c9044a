package handlers

import (
	"github.com/amirphl/affiliate-rhonat/app/dto"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdminReportHandlerInterface defines the admin reporting endpoints
type AdminReportHandlerInterface interface {
	Aggregates(c fiber.Ctx) error
	TopAffiliates(c fiber.Ctx) error
	ExportSales(c fiber.Ctx) error
}

type AdminReportHandler struct {
	flow      businessflow.AdminReportFlow
	validator *validator.Validate
}

func NewAdminReportHandler(flow businessflow.AdminReportFlow) AdminReportHandlerInterface {
	return &AdminReportHandler{flow: flow, validator: validator.New()}
}

// Aggregates returns clicks, sales and revenue by brand, product and affiliate
// @Summary Admin Aggregates
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminAggregatesResponse}
// @Failure 401 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/aggregates [get]
func (h *AdminReportHandler) Aggregates(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/v1/admin/aggregates", 0)
	defer cancel()

	res, err := h.flow.Aggregates(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("admin aggregates failed")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve aggregates", "GET_ADMIN_AGGREGATES_FAILED", nil)
	}
	return c.JSON(dto.APIResponse{Success: true, Message: "Aggregates retrieved", Data: res})
}

// TopAffiliates ranks affiliates by clicks, sales or revenue
// @Summary Admin Top Affiliates
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Param metric query string false "Ranking metric" Enums(clicks, sales, revenue)
// @Param limit query int false "Number of affiliates (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.AdminTopAffiliatesResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/top-affiliates [get]
func (h *AdminReportHandler) TopAffiliates(c fiber.Ctx) error {
	var req dto.AdminTopAffiliatesRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/top-affiliates", 0)
	defer cancel()

	res, err := h.flow.TopAffiliates(ctx, req.Metric, req.Limit)
	if err != nil {
		if businessflow.IsInvalidMetric(err) {
			return errorResponse(c, fiber.StatusBadRequest, "metric must be one of: clicks sales revenue", "INVALID_METRIC", nil)
		}
		logging.Ctx(ctx).Error().Err(err).Msg("admin top affiliates failed")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to rank affiliates", "GET_TOP_AFFILIATES_FAILED", nil)
	}
	return c.JSON(dto.APIResponse{Success: true, Message: "Top affiliates retrieved", Data: res})
}

// ExportSales downloads the sales of a date range as an Excel workbook
// @Summary Admin Export Sales (Excel)
// @Tags Admin Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param from query string true "Range start, inclusive (YYYY-MM-DD or RFC3339)"
// @Param to query string true "Range end, exclusive (YYYY-MM-DD or RFC3339)"
// @Success 200 {string} string "Excel file"
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/sales/export [get]
func (h *AdminReportHandler) ExportSales(c fiber.Ctx) error {
	var req dto.AdminSalesExportRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}
	from, err := utils.ParseDateOrTime(req.From)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid from format", "VALIDATION_ERROR", err.Error())
	}
	to, err := utils.ParseDateOrTime(req.To)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid to format", "VALIDATION_ERROR", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/v1/admin/sales/export", 0)
	defer cancel()

	filename, data, err := h.flow.ExportSales(ctx, from, to)
	if err != nil {
		if businessflow.IsInvalidDateRange(err) {
			return errorResponse(c, fiber.StatusBadRequest, "from must be before to", "INVALID_DATE_RANGE", nil)
		}
		logging.Ctx(ctx).Error().Err(err).Msg("admin sales export failed")
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to generate Excel", "EXPORT_SALES_FAILED", nil)
	}
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
