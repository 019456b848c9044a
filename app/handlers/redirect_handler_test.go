package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRedirectApp(flow businessflow.AffiliateRedirectFlow, ds config.DataServiceConfig) *fiber.App {
	app := fiber.New(fiber.Config{UnescapePath: true})
	h := NewRedirectHandler(flow, ds, time.Second)
	app.All("/go/:code?", h.Redirect)
	return app
}

func TestRedirectSuccess(t *testing.T) {
	flow := new(mockRedirectFlow)
	linkID := uuid.New()
	cookie := businessflow.AttributionCookie(linkID)
	location := "https://shop.example.com/p?aff_link_id=" + linkID.String()

	flow.On("Resolve", mock.Anything, "SUMMER24", mock.MatchedBy(func(m *businessflow.ClientMetadata) bool {
		return m.IPAddress == "203.0.113.7" &&
			m.UserAgent == "test-agent" &&
			m.Referer != nil && *m.Referer == "https://blog.example.org" &&
			m.AcceptLanguage == nil
	})).Return(&businessflow.RedirectResult{Location: location, Cookie: cookie, ClickRecorded: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/go/%20SUMMER24%20", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Referrer", "https://blog.example.org")

	resp, _ := doRequest(t, newRedirectApp(flow, configuredDataService), req)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
	assert.Equal(t, cookie, resp.Header.Get("Set-Cookie"))
	flow.AssertExpectations(t)
}

func TestRedirectCodeFromQuery(t *testing.T) {
	flow := new(mockRedirectFlow)
	flow.On("Resolve", mock.Anything, "ABC", mock.Anything).
		Return(&businessflow.RedirectResult{Location: "https://a.example", Cookie: "aff_link_id=x"}, nil).Once()

	resp, _ := doRequest(t, newRedirectApp(flow, configuredDataService), httptest.NewRequest(http.MethodGet, "/go?code=ABC", nil))

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	flow.AssertExpectations(t)
}

func TestRedirectErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"link not found", businessflow.ErrAffiliateLinkNotFound, fiber.StatusNotFound, "Affiliate link not found."},
		{"product not found", businessflow.ErrProductNotFound, fiber.StatusNotFound, "Product not found."},
		{"invalid landing url", businessflow.ErrInvalidLandingURL, fiber.StatusInternalServerError, "Invalid product landing URL."},
		{"data service failure", errors.New("connection refused"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := new(mockRedirectFlow)
			flow.On("Resolve", mock.Anything, "CODE", mock.Anything).Return(nil, tt.err).Once()

			resp, body := doRequest(t, newRedirectApp(flow, configuredDataService), httptest.NewRequest(http.MethodGet, "/go/CODE", nil))

			assert.Equal(t, tt.status, resp.StatusCode)
			got := decodeJSON[dto.AttributionErrorResponse](t, body)
			assert.Equal(t, tt.message, got.Error)
			assert.Empty(t, resp.Header.Get("Set-Cookie"))
		})
	}
}

func TestRedirectUnexpectedErrorCarriesMessage(t *testing.T) {
	flow := new(mockRedirectFlow)
	flow.On("Resolve", mock.Anything, "CODE", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, body := doRequest(t, newRedirectApp(flow, configuredDataService), httptest.NewRequest(http.MethodGet, "/go/CODE", nil))

	got := decodeJSON[dto.AttributionErrorResponse](t, body)
	assert.Equal(t, "connection refused", got.Message)
}

func TestRedirectInvalidCode(t *testing.T) {
	for _, target := range []string{"/go", "/go/%20%20", "/go?code=%20"} {
		t.Run(target, func(t *testing.T) {
			flow := new(mockRedirectFlow)

			resp, body := doRequest(t, newRedirectApp(flow, configuredDataService), httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Invalid affiliate code.", decodeJSON[dto.AttributionErrorResponse](t, body).Error)
			flow.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRedirectMethods(t *testing.T) {
	flow := new(mockRedirectFlow)
	app := newRedirectApp(flow, configuredDataService)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodOptions, "/go/CODE", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)

	resp, body = doRequest(t, app, httptest.NewRequest(http.MethodPost, "/go/CODE", nil))
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "Method not allowed", decodeJSON[dto.AttributionErrorResponse](t, body).Error)

	flow.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedirectMissingConfiguration(t *testing.T) {
	// the config check runs before the code is inspected, so a nil flow is never touched
	app := newRedirectApp(nil, config.DataServiceConfig{URL: "https://project.example.co"})

	for _, target := range []string{"/go/CODE", "/go"} {
		resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		got := decodeJSON[dto.AttributionErrorResponse](t, body)
		assert.Equal(t, "Missing SUPABASE_SERVICE_ROLE_KEY configuration.", got.Error)
		assert.Equal(t, []string{"SUPABASE_SERVICE_ROLE_KEY"}, got.Details)
	}

	resp, body := doRequest(t, newRedirectApp(nil, config.DataServiceConfig{}), httptest.NewRequest(http.MethodGet, "/go/CODE", nil))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Missing SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY configuration.", decodeJSON[dto.AttributionErrorResponse](t, body).Error)
}

func TestRedirectRecoversFromPanic(t *testing.T) {
	flow := new(mockRedirectFlow)
	flow.On("Resolve", mock.Anything, "CODE", mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil, nil)

	resp, body := doRequest(t, newRedirectApp(flow, configuredDataService), httptest.NewRequest(http.MethodGet, "/go/CODE", nil))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	got := decodeJSON[dto.AttributionErrorResponse](t, body)
	assert.Equal(t, "Internal server error", got.Error)
	assert.Equal(t, "boom", got.Message)
}

func TestRedirectConcurrentVisitors(t *testing.T) {
	const visitors = 16

	flow := new(mockRedirectFlow)
	linkID := uuid.New()
	flow.On("Resolve", mock.Anything, "SUMMER24", mock.Anything).
		Return(&businessflow.RedirectResult{
			Location:      "https://shop.example.com/p?aff_link_id=" + linkID.String(),
			Cookie:        businessflow.AttributionCookie(linkID),
			ClickRecorded: true,
		}, nil)
	app := newRedirectApp(flow, configuredDataService)

	statuses := make([]int, visitors)
	cookies := make([]string, visitors)
	errs := make([]error, visitors)
	var wg sync.WaitGroup
	for i := range visitors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/go/SUMMER24", nil))
			if err != nil {
				errs[i] = err
				return
			}
			_ = resp.Body.Close()
			statuses[i] = resp.StatusCode
			cookies[i] = resp.Header.Get("Set-Cookie")
		}()
	}
	wg.Wait()

	for i := range visitors {
		assert.NoError(t, errs[i])
		assert.Equal(t, fiber.StatusFound, statuses[i])
		assert.Equal(t, businessflow.AttributionCookie(linkID), cookies[i])
	}
	flow.AssertNumberOfCalls(t, "Resolve", visitors)
}
