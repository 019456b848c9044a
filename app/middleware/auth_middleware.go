// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	"github.com/amirphl/affiliate-rhonat/app/services"
	"github.com/amirphl/affiliate-rhonat/app/services/authz"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware handles JWT token validation and role authorization for reporting endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
	authorizer   authz.Authorizer
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService, authorizer authz.Authorizer) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		authorizer:   authorizer,
	}
}

// Authenticate is the middleware function that validates JWT tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authorization header is required",
				Error:   dto.ErrorDetail{Code: "MISSING_AUTHORIZATION_HEADER"},
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid authorization header format. Expected 'Bearer <token>'",
				Error:   dto.ErrorDetail{Code: "INVALID_AUTHORIZATION_FORMAT"},
			})
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Access token is required",
				Error:   dto.ErrorDetail{Code: "MISSING_ACCESS_TOKEN"},
			})
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			var errorCode, message string
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				errorCode = "TOKEN_EXPIRED"
				message = "Access token has expired"
			case errors.Is(err, services.ErrTokenInvalid):
				errorCode = "TOKEN_INVALID"
				message = "Invalid access token"
			default:
				errorCode = "TOKEN_VALIDATION_FAILED"
				message = "Token validation failed"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: message,
				Error:   dto.ErrorDetail{Code: errorCode},
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		return c.Next()
	}
}

// Authorize checks the authenticated role against the casbin policy for the
// request path and method. It must run after Authenticate.
func (m *AuthMiddleware) Authorize() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := GetTokenClaimsFromContext(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authentication required",
				Error:   dto.ErrorDetail{Code: "AUTHENTICATION_REQUIRED"},
			})
		}

		allowed, err := m.authorizer.Authorize(claims.Role, c.Path(), c.Method())
		if err != nil {
			logging.Error().Err(err).Str("role", claims.Role).Str("path", c.Path()).Msg("authorization check failed")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
				Success: false,
				Message: "Authorization check failed",
				Error:   dto.ErrorDetail{Code: "AUTHORIZATION_FAILED"},
			})
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Insufficient permissions",
				Error:   dto.ErrorDetail{Code: "FORBIDDEN", Details: fiber.Map{"role": claims.Role}},
			})
		}
		return c.Next()
	}
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}
