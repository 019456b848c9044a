package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/gofiber/fiber/v3"
)

// RedirectHandlerInterface defines the public affiliate redirect endpoint
type RedirectHandlerInterface interface {
	Redirect(c fiber.Ctx) error
}

// RedirectHandler resolves affiliate codes into tracked redirects.
// A handler built without data service settings answers every request with
// a configuration error.
type RedirectHandler struct {
	flow    businessflow.AffiliateRedirectFlow
	missing []string
	timeout time.Duration
}

func NewRedirectHandler(flow businessflow.AffiliateRedirectFlow, dataService config.DataServiceConfig, timeout time.Duration) RedirectHandlerInterface {
	return &RedirectHandler{
		flow:    flow,
		missing: dataService.MissingKeys(),
		timeout: timeout,
	}
}

// Redirect records a click and sends the visitor to the product landing page
// @Summary Follow Affiliate Link
// @Description Records a click, sets the 30 day aff_link_id cookie and redirects to the product landing URL with aff_link_id appended.
// @Tags Attribution
// @Produce json
// @Param code path string false "Affiliate link code"
// @Param code query string false "Affiliate link code when not in the path"
// @Success 302 {string} string "Redirect"
// @Failure 400 {object} dto.AttributionErrorResponse
// @Failure 404 {object} dto.AttributionErrorResponse
// @Failure 405 {object} dto.AttributionErrorResponse
// @Failure 500 {object} dto.AttributionErrorResponse
// @Router /go/{code} [get]
func (h *RedirectHandler) Redirect(c fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Str("path", c.Path()).Msg("affiliate redirect panicked")
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
	default:
		return attributionError(c, fiber.StatusMethodNotAllowed, "Method not allowed")
	}

	if len(h.missing) > 0 {
		logging.Error().Strs("missing", h.missing).Msg("affiliate redirect is not configured")
		return missingConfiguration(c, h.missing)
	}

	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		code = strings.TrimSpace(c.Query("code"))
	}
	if code == "" {
		return attributionError(c, fiber.StatusBadRequest, "Invalid affiliate code.")
	}

	ctx, cancel := createRequestContext(c, "/go/"+code, h.timeout)
	defer cancel()

	res, err := h.flow.Resolve(ctx, code, clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsInvalidAffiliateCode(err):
			return attributionError(c, fiber.StatusBadRequest, "Invalid affiliate code.")
		case businessflow.IsAffiliateLinkNotFound(err):
			return attributionError(c, fiber.StatusNotFound, "Affiliate link not found.")
		case businessflow.IsProductNotFound(err):
			return attributionError(c, fiber.StatusNotFound, "Product not found.")
		case businessflow.IsInvalidLandingURL(err):
			logging.Ctx(ctx).Error().Err(err).Str("code", code).Msg("invalid product landing url")
			return attributionError(c, fiber.StatusInternalServerError, "Invalid product landing URL.")
		}
		logging.Ctx(ctx).Error().Err(err).Str("code", code).Msg("affiliate redirect failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.AttributionErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})
	}

	c.Set(fiber.HeaderSetCookie, res.Cookie)
	return c.Redirect().Status(fiber.StatusFound).To(res.Location)
}

func attributionError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.AttributionErrorResponse{Error: message})
}

func missingConfiguration(c fiber.Ctx, missing []string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.AttributionErrorResponse{
		Error:   fmt.Sprintf("Missing %s configuration.", strings.Join(missing, " or ")),
		Details: missing,
	})
}
