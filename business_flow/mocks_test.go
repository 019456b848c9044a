package businessflow

import (
	"context"
	"time"

	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockLinkRepo struct {
	mock.Mock
	repository.AffiliateLinkRepository
}

func (m *mockLinkRepo) ByCode(ctx context.Context, code string) (*models.AffiliateLink, error) {
	args := m.Called(ctx, code)
	link, _ := args.Get(0).(*models.AffiliateLink)
	return link, args.Error(1)
}

func (m *mockLinkRepo) ByID(ctx context.Context, id uuid.UUID) (*models.AffiliateLink, error) {
	args := m.Called(ctx, id)
	link, _ := args.Get(0).(*models.AffiliateLink)
	return link, args.Error(1)
}

type mockCachingLinkRepo struct {
	mockLinkRepo
}

func (m *mockCachingLinkRepo) Invalidate(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

type mockProductRepo struct {
	mock.Mock
	repository.ProductRepository
}

func (m *mockProductRepo) ByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductRepo) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, filter, orderBy, limit, offset)
	rows, _ := args.Get(0).([]*models.Product)
	return rows, args.Error(1)
}

type mockBrandRepo struct {
	mock.Mock
	repository.BrandRepository
}

func (m *mockBrandRepo) ByFilter(ctx context.Context, filter models.BrandFilter, orderBy string, limit, offset int) ([]*models.Brand, error) {
	args := m.Called(ctx, filter, orderBy, limit, offset)
	rows, _ := args.Get(0).([]*models.Brand)
	return rows, args.Error(1)
}

type mockClickRepo struct {
	mock.Mock
	repository.ClickRepository
}

func (m *mockClickRepo) Save(ctx context.Context, click *models.Click) error {
	return m.Called(ctx, click).Error(0)
}

type mockSaleRepo struct {
	mock.Mock
	repository.SaleRepository
}

func (m *mockSaleRepo) Save(ctx context.Context, sale *models.Sale) error {
	return m.Called(ctx, sale).Error(0)
}

type mockAffiliateRepo struct {
	mock.Mock
	repository.AffiliateRepository
}

func (m *mockAffiliateRepo) ByUserID(ctx context.Context, userID uuid.UUID) (*models.Affiliate, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(*models.Affiliate)
	return a, args.Error(1)
}

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) AffiliateStats(ctx context.Context, affiliateID uuid.UUID) (*models.AffiliateStats, error) {
	args := m.Called(ctx, affiliateID)
	s, _ := args.Get(0).(*models.AffiliateStats)
	return s, args.Error(1)
}

func (m *mockReportRepo) ClickDetails(ctx context.Context, affiliateID uuid.UUID, limit, offset int) ([]*models.ClickDetail, error) {
	args := m.Called(ctx, affiliateID, limit, offset)
	rows, _ := args.Get(0).([]*models.ClickDetail)
	return rows, args.Error(1)
}

func (m *mockReportRepo) Conversions(ctx context.Context, affiliateID uuid.UUID, limit, offset int) ([]*models.Conversion, error) {
	args := m.Called(ctx, affiliateID, limit, offset)
	rows, _ := args.Get(0).([]*models.Conversion)
	return rows, args.Error(1)
}

func (m *mockReportRepo) AdminAggregates(ctx context.Context) (*models.AdminAggregates, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).(*models.AdminAggregates)
	return a, args.Error(1)
}

func (m *mockReportRepo) ProductGravity(ctx context.Context, limit int) ([]*models.ProductGravity, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]*models.ProductGravity)
	return rows, args.Error(1)
}

func (m *mockReportRepo) SalesForExport(ctx context.Context, from, to time.Time) ([]*models.SaleExportRow, error) {
	args := m.Called(ctx, from, to)
	rows, _ := args.Get(0).([]*models.SaleExportRow)
	return rows, args.Error(1)
}

type headerMap map[string]string

func (h headerMap) Get(key string) string { return h[key] }
