package handlers

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
)

const pixelCacheControl = "no-cache, no-store, must-revalidate"

// SaleRecordHandlerInterface defines the public sale notification endpoint
type SaleRecordHandlerInterface interface {
	Record(c fiber.Ctx) error
}

type SaleRecordHandler struct {
	flow    businessflow.SaleRecordFlow
	missing []string
	timeout time.Duration
}

func NewSaleRecordHandler(flow businessflow.SaleRecordFlow, dataService config.DataServiceConfig, timeout time.Duration) SaleRecordHandlerInterface {
	return &SaleRecordHandler{
		flow:    flow,
		missing: dataService.MissingKeys(),
		timeout: timeout,
	}
}

// Record attributes a sale to the last clicked affiliate link.
// GET is the tracking pixel; POST is the merchant API.
// @Summary Record Sale
// @Description GET reads order_id and amount from the query and the link from the aff_link_id cookie, and always answers with a 1x1 GIF. POST reads a JSON body; link_id falls back to the cookie.
// @Tags Attribution
// @Accept json
// @Produce json
// @Produce image/gif
// @Param order_id query string false "Order id (pixel mode)"
// @Param amount query number false "Order amount (pixel mode)"
// @Param request body dto.SaleRecordRequest false "Sale (API mode)"
// @Success 200 {object} dto.SaleRecordResponse
// @Failure 400 {object} dto.AttributionErrorResponse
// @Failure 500 {object} dto.AttributionErrorResponse
// @Router /sale-record [get]
// @Router /sale-record [post]
func (h *SaleRecordHandler) Record(c fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Str("method", c.Method()).Msg("sale record panicked")
			if c.Method() == fiber.MethodGet {
				err = sendPixel(c)
				return
			}
			err = c.Status(fiber.StatusInternalServerError).JSON(dto.AttributionErrorResponse{
				Error:   "Internal server error",
				Message: fmt.Sprint(r),
			})
		}
	}()

	switch c.Method() {
	case fiber.MethodOptions:
		c.Status(fiber.StatusOK)
		return nil
	case fiber.MethodGet:
		return h.recordPixel(c)
	case fiber.MethodPost:
		return h.recordAPI(c)
	default:
		return attributionError(c, fiber.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SaleRecordHandler) recordPixel(c fiber.Ctx) error {
	linkID := strings.TrimSpace(c.Cookies(utils.AttributionCookieName))
	if linkID == "" {
		return c.Status(fiber.StatusBadRequest).SendString("No affiliate link found in cookie")
	}

	ctx, cancel := createRequestContext(c, "/sale-record", h.timeout)
	defer cancel()

	if len(h.missing) > 0 {
		logging.Ctx(ctx).Error().Strs("missing", h.missing).Msg("sale pixel received but data service is not configured")
		return sendPixel(c)
	}

	amount := 0.0
	if raw := c.Query("amount"); raw != "" {
		// NaN cannot be stored, so an unparseable amount stays 0
		if v, ok := businessflow.ParseFloatPrefix(raw); ok {
			amount = v
		}
	}
	orderID := c.Query("order_id")

	if _, err := h.flow.Record(ctx, businessflow.SaleInput{
		Mode:    businessflow.SaleModePixel,
		LinkID:  linkID,
		OrderID: &orderID,
		Amount:  &amount,
	}); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("link_id", linkID).Str("order_id", orderID).Msg("sale pixel not recorded")
	}
	return sendPixel(c)
}

func (h *SaleRecordHandler) recordAPI(c fiber.Ctx) error {
	if len(h.missing) > 0 {
		logging.Error().Strs("missing", h.missing).Msg("sale record is not configured")
		return missingConfiguration(c, h.missing)
	}

	body := map[string]any{}
	if raw := bytes.TrimSpace(c.Body()); len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.AttributionErrorResponse{
				Error:   "Invalid JSON body",
				Message: err.Error(),
			})
		}
	}
	payload := businessflow.NormalizeSalePayload(body)

	linkID := utils.DerefString(payload.LinkID)
	if linkID == "" {
		linkID = strings.TrimSpace(c.Cookies(utils.AttributionCookieName))
	}
	if linkID == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing link_id in body or cookie")
	}

	ctx, cancel := createRequestContext(c, "/sale-record", h.timeout)
	defer cancel()

	_, err := h.flow.Record(ctx, businessflow.SaleInput{
		Mode:    businessflow.SaleModeAPI,
		LinkID:  linkID,
		OrderID: payload.OrderID,
		Amount:  payload.Amount,
	})
	if err != nil {
		switch {
		case businessflow.IsMissingLinkID(err):
			return c.Status(fiber.StatusBadRequest).SendString("Missing link_id in body or cookie")
		case businessflow.IsMissingOrderID(err):
			return attributionError(c, fiber.StatusBadRequest, "Missing order_id")
		case businessflow.IsMissingAmount(err):
			return attributionError(c, fiber.StatusBadRequest, "Missing amount")
		case businessflow.IsInvalidLink(err):
			return c.Status(fiber.StatusBadRequest).SendString("Invalid link")
		case businessflow.IsInvalidProduct(err):
			return c.Status(fiber.StatusBadRequest).SendString("Invalid product")
		}
		logging.Ctx(ctx).Error().Err(err).Str("link_id", linkID).Msg("sale record failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.AttributionErrorResponse{
			Error:   "Failed to record sale",
			Message: err.Error(),
		})
	}

	return c.JSON(dto.SaleRecordResponse{Success: true})
}

func sendPixel(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "image/gif")
	c.Set(fiber.HeaderCacheControl, pixelCacheControl)
	return c.Status(fiber.StatusOK).Send(utils.TrackingPixelGIF)
}
