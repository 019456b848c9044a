package repository

import (
	"context"
	"time"

	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uuid.UUID) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AffiliateLinkRepository defines operations for affiliate links
type AffiliateLinkRepository interface {
	Repository[models.AffiliateLink, models.AffiliateLinkFilter]
	// ByCode is an exact, case sensitive match. A missing link is (nil, nil).
	ByCode(ctx context.Context, code string) (*models.AffiliateLink, error)
}

// LinkCacheInvalidator is implemented by link repositories that cache by code
type LinkCacheInvalidator interface {
	Invalidate(ctx context.Context, code string) error
}

// ProductRepository defines operations for products
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
}

// ClickRepository defines operations for clicks
type ClickRepository interface {
	Repository[models.Click, models.ClickFilter]
}

// SaleRepository defines operations for sales
type SaleRepository interface {
	Repository[models.Sale, models.SaleFilter]
}

// BrandRepository defines operations for brands
type BrandRepository interface {
	Repository[models.Brand, models.BrandFilter]
}

// AffiliateRepository defines operations for affiliates
type AffiliateRepository interface {
	Repository[models.Affiliate, models.AffiliateFilter]
	ByUserID(ctx context.Context, userID uuid.UUID) (*models.Affiliate, error)
}

// ReportRepository runs the reporting queries defined in migrations
type ReportRepository interface {
	AffiliateStats(ctx context.Context, affiliateID uuid.UUID) (*models.AffiliateStats, error)
	ClickDetails(ctx context.Context, affiliateID uuid.UUID, limit, offset int) ([]*models.ClickDetail, error)
	Conversions(ctx context.Context, affiliateID uuid.UUID, limit, offset int) ([]*models.Conversion, error)
	AdminAggregates(ctx context.Context) (*models.AdminAggregates, error)
	ProductGravity(ctx context.Context, limit int) ([]*models.ProductGravity, error)
	SalesForExport(ctx context.Context, from, to time.Time) ([]*models.SaleExportRow, error)
}

// Store bundles every repository a backend provides
type Store struct {
	Links      AffiliateLinkRepository
	Products   ProductRepository
	Clicks     ClickRepository
	Sales      SaleRepository
	Brands     BrandRepository
	Affiliates AffiliateRepository
	Reports    ReportRepository
}
