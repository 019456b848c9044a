package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/services"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthorizer struct {
	allowed bool
	err     error
}

func (s stubAuthorizer) Authorize(role, path, method string) (bool, error) {
	return s.allowed, s.err
}

func newAuthApp(t *testing.T, authorizer stubAuthorizer) (*fiber.App, services.TokenService) {
	t.Helper()
	tokens, err := services.NewTokenService(time.Hour, "affiliate", "authenticated", "affiliate", false, "", "", "0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	m := NewAuthMiddleware(tokens, authorizer)
	app := fiber.New()
	app.Get("/api/v1/affiliate/stats", m.Authenticate(), m.Authorize(), func(c fiber.Ctx) error {
		claims, ok := GetTokenClaimsFromContext(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(claims.UserID.String() + " " + claims.Role)
	})
	return app, tokens
}

func call(t *testing.T, app *fiber.App, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/stats", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthenticateRejects(t *testing.T) {
	app, _ := newAuthApp(t, stubAuthorizer{allowed: true})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "MISSING_AUTHORIZATION_HEADER"},
		{"wrong scheme", "Basic abc", "INVALID_AUTHORIZATION_FORMAT"},
		{"garbage token", "Bearer not.a.jwt", "TOKEN_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, tt.header)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Contains(t, body, tt.code)
		})
	}
}

func TestAuthenticateStoresClaims(t *testing.T) {
	app, tokens := newAuthApp(t, stubAuthorizer{allowed: true})
	userID := uuid.New()
	token, err := tokens.GenerateAccessToken(userID, "affiliate")
	require.NoError(t, err)

	status, body := call(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, userID.String()+" affiliate", body)
}

func TestAuthorizeOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		authorizer stubAuthorizer
		status     int
		code       string
	}{
		{"denied", stubAuthorizer{allowed: false}, fiber.StatusForbidden, "FORBIDDEN"},
		{"policy failure", stubAuthorizer{err: errors.New("policy unavailable")}, fiber.StatusInternalServerError, "AUTHORIZATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, tokens := newAuthApp(t, tt.authorizer)
			token, err := tokens.GenerateAccessToken(uuid.New(), "brand")
			require.NoError(t, err)

			status, body := call(t, app, "Bearer "+token)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, body, tt.code)
		})
	}
}
