package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAffiliateApp(flow businessflow.AffiliateStatsFlow, viewer fiber.Handler) *fiber.App {
	app := fiber.New()
	if viewer != nil {
		app.Use(viewer)
	}
	h := NewAffiliateStatsHandler(flow)
	app.Get("/api/v1/affiliate/stats", h.GetStats)
	app.Get("/api/v1/affiliate/clicks", h.ListClicks)
	app.Get("/api/v1/affiliate/conversions", h.ListConversions)
	return app
}

func TestAffiliateStatsHandler(t *testing.T) {
	userID := uuid.New()
	viewer := businessflow.Viewer{UserID: userID, Role: "affiliate"}

	flow := new(mockStatsFlow)
	flow.On("GetStats", mock.Anything, viewer, (*uuid.UUID)(nil)).
		Return(&dto.AffiliateStatsResponse{AffiliateID: "a", Clicks: 10, Sales: 1, ConversionRate: 10}, nil).Once()

	resp, body := doRequest(t, newAffiliateApp(flow, asViewer(userID, "affiliate")), httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/stats", nil))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decodeJSON[dto.APIResponse](t, body)
	assert.True(t, got.Success)
	data, ok := got.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 10, data["conversion_rate"])
	flow.AssertExpectations(t)
}

func TestAffiliateStatsAdminOverride(t *testing.T) {
	userID := uuid.New()
	target := uuid.New()
	flow := new(mockStatsFlow)
	flow.On("GetStats", mock.Anything, businessflow.Viewer{UserID: userID, Role: "admin"}, &target).
		Return(&dto.AffiliateStatsResponse{AffiliateID: target.String()}, nil).Once()

	resp, _ := doRequest(t, newAffiliateApp(flow, asViewer(userID, "admin")),
		httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/stats?affiliate_id="+target.String(), nil))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	flow.AssertExpectations(t)
}

func TestAffiliateStatsRejects(t *testing.T) {
	userID := uuid.New()

	t.Run("no identity", func(t *testing.T) {
		resp, _ := doRequest(t, newAffiliateApp(new(mockStatsFlow), nil), httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/stats", nil))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed affiliate id", func(t *testing.T) {
		resp, body := doRequest(t, newAffiliateApp(new(mockStatsFlow), asViewer(userID, "admin")),
			httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/stats?affiliate_id=42", nil))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), "VALIDATION_ERROR")
	})

	t.Run("no affiliate profile", func(t *testing.T) {
		flow := new(mockStatsFlow)
		flow.On("GetStats", mock.Anything, mock.Anything, mock.Anything).Return(nil, businessflow.ErrAffiliateNotFound).Once()
		resp, body := doRequest(t, newAffiliateApp(flow, asViewer(userID, "affiliate")), httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/stats", nil))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Contains(t, string(body), "AFFILIATE_NOT_FOUND")
	})

	t.Run("report failure", func(t *testing.T) {
		flow := new(mockStatsFlow)
		flow.On("GetStats", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
		resp, _ := doRequest(t, newAffiliateApp(flow, asViewer(userID, "affiliate")), httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/stats", nil))
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestAffiliateListsPassPaging(t *testing.T) {
	userID := uuid.New()
	viewer := businessflow.Viewer{UserID: userID, Role: "affiliate"}

	flow := new(mockStatsFlow)
	flow.On("ListClicks", mock.Anything, viewer, (*uuid.UUID)(nil), 20, 40).
		Return(&dto.AffiliateClicksResponse{Items: []dto.ClickDetailDTO{}}, nil).Once()
	flow.On("ListConversions", mock.Anything, viewer, (*uuid.UUID)(nil), 0, 0).
		Return(&dto.AffiliateConversionsResponse{Items: []dto.ConversionDTO{}}, nil).Once()

	app := newAffiliateApp(flow, asViewer(userID, "affiliate"))

	resp, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/clicks?limit=20&offset=40", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/conversions", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/affiliate/clicks?limit=501", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	flow.AssertExpectations(t)
}

func TestMarketplaceHandler(t *testing.T) {
	flow := new(mockMarketplaceFlow)
	flow.On("ListProducts", mock.Anything, 25).
		Return(&dto.MarketplaceProductsResponse{Items: []dto.MarketplaceProductDTO{{Name: "Course", GravityScore: 3}}, Count: 1}, nil).Once()

	app := fiber.New()
	app.Get("/api/v1/marketplace/products", NewMarketplaceHandler(flow).ListProducts)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/products?limit=25", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"gravity_score":3`)

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/products?limit=201", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	flow.AssertExpectations(t)
}

func newAdminApp(flow businessflow.AdminReportFlow) *fiber.App {
	app := fiber.New()
	h := NewAdminReportHandler(flow)
	app.Get("/api/v1/admin/aggregates", h.Aggregates)
	app.Get("/api/v1/admin/top-affiliates", h.TopAffiliates)
	app.Get("/api/v1/admin/sales/export", h.ExportSales)
	return app
}

func TestAdminTopAffiliatesHandler(t *testing.T) {
	flow := new(mockAdminFlow)
	flow.On("TopAffiliates", mock.Anything, "clicks", 5).
		Return(&dto.AdminTopAffiliatesResponse{Metric: "clicks", Items: []dto.TopAffiliateDTO{{Rank: 1}}}, nil).Once()
	flow.On("Aggregates", mock.Anything).Return(&dto.AdminAggregatesResponse{}, nil).Once()
	app := newAdminApp(flow)

	resp, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/admin/top-affiliates?metric=clicks&limit=5", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/admin/top-affiliates?metric=epc", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/admin/aggregates", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	flow.AssertExpectations(t)
}

func TestAdminExportSalesHandler(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	workbook := []byte("PK\x03\x04")

	flow := new(mockAdminFlow)
	flow.On("ExportSales", mock.Anything, from, to).Return("sales_20240101_20240201.xlsx", workbook, nil).Once()
	app := newAdminApp(flow)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/admin/sales/export?from=2024-01-01&to=2024-02-01", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=sales_20240101_20240201.xlsx", resp.Header.Get("Content-Disposition"))
	assert.Equal(t, workbook, body)
	flow.AssertExpectations(t)
}

func TestAdminExportSalesRejects(t *testing.T) {
	flow := new(mockAdminFlow)
	flow.On("ExportSales", mock.Anything, mock.Anything, mock.Anything).Return("", nil, businessflow.ErrInvalidDateRange).Once()
	app := newAdminApp(flow)

	for _, target := range []string{
		"/api/v1/admin/sales/export?to=2024-02-01",
		"/api/v1/admin/sales/export?from=yesterday&to=2024-02-01",
		"/api/v1/admin/sales/export?from=2024-02-01&to=2024-01-01",
	} {
		resp, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, target)
	}
	flow.AssertExpectations(t)
}

func TestHealthHandler(t *testing.T) {
	app := fiber.New()
	h := NewHealthHandler(
		config.DeploymentConfig{ServiceName: "affiliate-rhonat", Version: "1.2.3", Environment: "test"},
		configuredDataService,
		repository.NewCacheMonitor(nil),
	)
	app.Get("/api/v1/health", h.Check)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	type healthEnvelope struct {
		Data dto.HealthResponse `json:"data"`
	}
	got := decodeJSON[healthEnvelope](t, body)
	assert.Equal(t, "ok", got.Data.Status)
	assert.Equal(t, "1.2.3", got.Data.Version)
	assert.True(t, got.Data.DataServiceConfigured)
	assert.Equal(t, "rest", got.Data.DataServiceDriver)
	assert.Equal(t, repository.CacheDisabled, got.Data.Cache)
}
