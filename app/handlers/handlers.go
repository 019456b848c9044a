// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

const defaultRequestTimeout = 10 * time.Second

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "uuid":
		return err.Field() + " must be a valid UUID"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// validationMessages flattens a validator error into readable messages
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, getValidationErrorMessage(fe))
	}
	return messages
}

func errorResponse(c fiber.Ctx, statusCode int, message, code string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code, Details: details},
	})
}

// createRequestContext builds the context handed to business flows. The
// caller owns the returned cancel func.
func createRequestContext(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestID(c))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx, cancel
}

func requestID(c fiber.Ctx) string {
	if id := requestid.FromContext(c); id != "" {
		return id
	}
	return c.Get(businessflow.RequestIDKey)
}

// fiberHeaders exposes request headers to the header normalizers
type fiberHeaders struct {
	c fiber.Ctx
}

func (h fiberHeaders) Get(key string) string {
	return h.c.Get(key)
}

// peerIP is the socket address, ignoring any configured proxy header
func peerIP(c fiber.Ctx) string {
	if ip := c.RequestCtx().RemoteIP(); ip != nil && !ip.IsUnspecified() {
		return ip.String()
	}
	return ""
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	meta := businessflow.NormalizeClientMetadata(fiberHeaders{c: c}, peerIP(c))
	meta.SetRequestID(requestID(c))
	return meta
}

// viewerFromContext reads the identity stored by the auth middleware
func viewerFromContext(c fiber.Ctx) (businessflow.Viewer, bool) {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return businessflow.Viewer{}, false
	}
	role, _ := c.Locals("role").(string)
	return businessflow.Viewer{UserID: userID, Role: role}, true
}
