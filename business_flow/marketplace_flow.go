package businessflow

import (
	"context"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/google/uuid"
)

const (
	defaultMarketplaceLimit = 50
	maxMarketplaceLimit     = 200
)

// MarketplaceFlow lists promotable products ranked by gravity.
// When no gravity data exists yet, plain products are listed with zero gravity.
type MarketplaceFlow interface {
	ListProducts(ctx context.Context, limit int) (*dto.MarketplaceProductsResponse, error)
}

type MarketplaceFlowImpl struct {
	reports  repository.ReportRepository
	products repository.ProductRepository
	brands   repository.BrandRepository
}

func NewMarketplaceFlow(reports repository.ReportRepository, products repository.ProductRepository, brands repository.BrandRepository) MarketplaceFlow {
	return &MarketplaceFlowImpl{reports: reports, products: products, brands: brands}
}

func (f *MarketplaceFlowImpl) ListProducts(ctx context.Context, limit int) (*dto.MarketplaceProductsResponse, error) {
	limit, _ = clampPage(limit, 0, defaultMarketplaceLimit, maxMarketplaceLimit)

	rows, err := f.reports.ProductGravity(ctx, limit)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_GRAVITY_FAILED", "Failed to load product gravity", err)
	}
	if len(rows) > 0 {
		items := make([]dto.MarketplaceProductDTO, 0, len(rows))
		for _, r := range rows {
			items = append(items, dto.MarketplaceProductDTO{
				ProductID:         r.ProductID.String(),
				Name:              r.Name,
				Price:             r.Price,
				CommissionPercent: r.CommissionPercent,
				BrandName:         utils.NonEmptyPtr(r.BrandName),
				GravityScore:      r.GravityScore,
				Sales30d:          r.Sales30d,
				Clicks30d:         r.Clicks30d,
			})
		}
		return &dto.MarketplaceProductsResponse{Items: items, Count: len(items)}, nil
	}

	return f.listWithoutGravity(ctx, limit)
}

func (f *MarketplaceFlowImpl) listWithoutGravity(ctx context.Context, limit int) (*dto.MarketplaceProductsResponse, error) {
	products, err := f.products.ByFilter(ctx, models.ProductFilter{}, "created_at DESC", limit, 0)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Failed to list products", err)
	}

	brandNames := make(map[uuid.UUID]string)
	if len(products) > 0 {
		ids := make([]uuid.UUID, 0, len(products))
		seen := make(map[uuid.UUID]bool)
		for _, p := range products {
			if !seen[p.BrandID] {
				seen[p.BrandID] = true
				ids = append(ids, p.BrandID)
			}
		}
		brands, err := f.brands.ByFilter(ctx, models.BrandFilter{IDs: ids}, "", 0, 0)
		if err != nil {
			return nil, NewBusinessError("BRAND_LIST_FAILED", "Failed to list brands", err)
		}
		for _, b := range brands {
			brandNames[b.ID] = b.Name
		}
	}

	items := make([]dto.MarketplaceProductDTO, 0, len(products))
	for _, p := range products {
		items = append(items, dto.MarketplaceProductDTO{
			ProductID:         p.ID.String(),
			Name:              p.Name,
			Price:             p.Price,
			CommissionPercent: p.CommissionPercent,
			BrandName:         utils.NonEmptyPtr(brandNames[p.BrandID]),
		})
	}
	return &dto.MarketplaceProductsResponse{Items: items, Count: len(items)}, nil
}
