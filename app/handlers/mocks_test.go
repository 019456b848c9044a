package handlers

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	businessflow "github.com/amirphl/affiliate-rhonat/business_flow"
	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var configuredDataService = config.DataServiceConfig{
	Driver:         config.DriverREST,
	URL:            "https://project.example.co",
	ServiceRoleKey: "service-role-key",
}

type mockRedirectFlow struct{ mock.Mock }

func (m *mockRedirectFlow) Resolve(ctx context.Context, code string, meta *businessflow.ClientMetadata) (*businessflow.RedirectResult, error) {
	args := m.Called(ctx, code, meta)
	res, _ := args.Get(0).(*businessflow.RedirectResult)
	return res, args.Error(1)
}

type mockSaleFlow struct{ mock.Mock }

func (m *mockSaleFlow) Record(ctx context.Context, input businessflow.SaleInput) (*models.Sale, error) {
	args := m.Called(ctx, input)
	sale, _ := args.Get(0).(*models.Sale)
	return sale, args.Error(1)
}

type mockStatsFlow struct{ mock.Mock }

func (m *mockStatsFlow) GetStats(ctx context.Context, viewer businessflow.Viewer, affiliateID *uuid.UUID) (*dto.AffiliateStatsResponse, error) {
	args := m.Called(ctx, viewer, affiliateID)
	res, _ := args.Get(0).(*dto.AffiliateStatsResponse)
	return res, args.Error(1)
}

func (m *mockStatsFlow) ListClicks(ctx context.Context, viewer businessflow.Viewer, affiliateID *uuid.UUID, limit, offset int) (*dto.AffiliateClicksResponse, error) {
	args := m.Called(ctx, viewer, affiliateID, limit, offset)
	res, _ := args.Get(0).(*dto.AffiliateClicksResponse)
	return res, args.Error(1)
}

func (m *mockStatsFlow) ListConversions(ctx context.Context, viewer businessflow.Viewer, affiliateID *uuid.UUID, limit, offset int) (*dto.AffiliateConversionsResponse, error) {
	args := m.Called(ctx, viewer, affiliateID, limit, offset)
	res, _ := args.Get(0).(*dto.AffiliateConversionsResponse)
	return res, args.Error(1)
}

type mockMarketplaceFlow struct{ mock.Mock }

func (m *mockMarketplaceFlow) ListProducts(ctx context.Context, limit int) (*dto.MarketplaceProductsResponse, error) {
	args := m.Called(ctx, limit)
	res, _ := args.Get(0).(*dto.MarketplaceProductsResponse)
	return res, args.Error(1)
}

type mockAdminFlow struct{ mock.Mock }

func (m *mockAdminFlow) Aggregates(ctx context.Context) (*dto.AdminAggregatesResponse, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*dto.AdminAggregatesResponse)
	return res, args.Error(1)
}

func (m *mockAdminFlow) TopAffiliates(ctx context.Context, metric string, limit int) (*dto.AdminTopAffiliatesResponse, error) {
	args := m.Called(ctx, metric, limit)
	res, _ := args.Get(0).(*dto.AdminTopAffiliatesResponse)
	return res, args.Error(1)
}

func (m *mockAdminFlow) ExportSales(ctx context.Context, from, to time.Time) (string, []byte, error) {
	args := m.Called(ctx, from, to)
	data, _ := args.Get(1).([]byte)
	return args.String(0), data, args.Error(2)
}

// asViewer stores an identity the way the auth middleware does
func asViewer(userID uuid.UUID, role string) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, body
}

func decodeJSON[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}
