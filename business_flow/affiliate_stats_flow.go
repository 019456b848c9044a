package businessflow

import (
	"context"
	"math"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// Viewer is the authenticated caller of a reporting endpoint
type Viewer struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the viewer may read other affiliates' data
func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// AffiliateStatsFlow serves the affiliate dashboard.
// Admins may pass an explicit affiliate id, everyone else reads their own.
type AffiliateStatsFlow interface {
	GetStats(ctx context.Context, viewer Viewer, affiliateID *uuid.UUID) (*dto.AffiliateStatsResponse, error)
	ListClicks(ctx context.Context, viewer Viewer, affiliateID *uuid.UUID, limit, offset int) (*dto.AffiliateClicksResponse, error)
	ListConversions(ctx context.Context, viewer Viewer, affiliateID *uuid.UUID, limit, offset int) (*dto.AffiliateConversionsResponse, error)
}

type AffiliateStatsFlowImpl struct {
	affiliates repository.AffiliateRepository
	reports    repository.ReportRepository
}

func NewAffiliateStatsFlow(affiliates repository.AffiliateRepository, reports repository.ReportRepository) AffiliateStatsFlow {
	return &AffiliateStatsFlowImpl{affiliates: affiliates, reports: reports}
}

func (f *AffiliateStatsFlowImpl) GetStats(ctx context.Context, viewer Viewer, affiliateID *uuid.UUID) (*dto.AffiliateStatsResponse, error) {
	id, err := f.resolveAffiliate(ctx, viewer, affiliateID)
	if err != nil {
		return nil, err
	}
	stats, err := f.reports.AffiliateStats(ctx, id)
	if err != nil {
		return nil, NewBusinessError("AFFILIATE_STATS_FAILED", "Failed to load affiliate stats", err)
	}
	if stats == nil {
		stats = &models.AffiliateStats{}
	}
	return &dto.AffiliateStatsResponse{
		AffiliateID:    id.String(),
		Clicks:         stats.Clicks,
		Sales:          stats.Sales,
		Revenue:        stats.Revenue,
		Commission:     stats.Commission,
		ConversionRate: ConversionRate(stats.Sales, stats.Clicks),
		EPC:            EarningsPerClick(stats.Revenue, stats.Clicks),
	}, nil
}

func (f *AffiliateStatsFlowImpl) ListClicks(ctx context.Context, viewer Viewer, affiliateID *uuid.UUID, limit, offset int) (*dto.AffiliateClicksResponse, error) {
	id, err := f.resolveAffiliate(ctx, viewer, affiliateID)
	if err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset, utils.DefaultClicksPageSize, utils.MaxClicksPageSize)

	rows, err := f.reports.ClickDetails(ctx, id, limit, offset)
	if err != nil {
		return nil, NewBusinessError("AFFILIATE_CLICKS_FAILED", "Failed to load click details", err)
	}

	items := make([]dto.ClickDetailDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.ClickDetailDTO{
			ClickID:     r.ClickID.String(),
			Date:        r.CreatedAt.UTC().Format(time.RFC3339),
			ProductName: r.ProductName,
			BrandName:   r.BrandName,
			LinkCode:    r.LinkCode,
			LandingURL:  r.LandingURL,
			IP:          r.IP,
			Referer:     r.Referer,
			UserAgent:   r.UserAgent,
		})
	}
	return &dto.AffiliateClicksResponse{
		AffiliateID: id.String(),
		Items:       items,
		Page:        dto.PageInfo{Limit: limit, Offset: offset, Count: len(items)},
	}, nil
}

func (f *AffiliateStatsFlowImpl) ListConversions(ctx context.Context, viewer Viewer, affiliateID *uuid.UUID, limit, offset int) (*dto.AffiliateConversionsResponse, error) {
	id, err := f.resolveAffiliate(ctx, viewer, affiliateID)
	if err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset, utils.DefaultClicksPageSize, utils.MaxClicksPageSize)

	stats, err := f.reports.AffiliateStats(ctx, id)
	if err != nil {
		return nil, NewBusinessError("AFFILIATE_STATS_FAILED", "Failed to load affiliate stats", err)
	}
	if stats == nil {
		stats = &models.AffiliateStats{}
	}
	rows, err := f.reports.Conversions(ctx, id, limit, offset)
	if err != nil {
		return nil, NewBusinessError("AFFILIATE_CONVERSIONS_FAILED", "Failed to load conversions", err)
	}

	items := make([]dto.ConversionDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.ConversionDTO{
			SaleID:      r.SaleID.String(),
			OrderID:     r.OrderID,
			Amount:      r.Amount,
			Commission:  r.Commission,
			Date:        r.CreatedAt.UTC().Format(time.RFC3339),
			LinkCode:    r.LinkCode,
			ProductName: r.ProductName,
		})
	}
	return &dto.AffiliateConversionsResponse{
		AffiliateID: id.String(),
		Summary: dto.ConversionSummary{
			TotalConversions: stats.Sales,
			TotalRevenue:     stats.Revenue,
			TotalCommission:  stats.Commission,
			ConversionRate:   ConversionRate(stats.Sales, stats.Clicks),
		},
		Items: items,
		Page:  dto.PageInfo{Limit: limit, Offset: offset, Count: len(items)},
	}, nil
}

func (f *AffiliateStatsFlowImpl) resolveAffiliate(ctx context.Context, viewer Viewer, requested *uuid.UUID) (uuid.UUID, error) {
	if requested != nil && viewer.IsAdmin() {
		return *requested, nil
	}
	affiliate, err := f.affiliates.ByUserID(ctx, viewer.UserID)
	if err != nil {
		return uuid.Nil, NewBusinessError("AFFILIATE_LOOKUP_FAILED", "Failed to lookup affiliate", err)
	}
	if affiliate == nil {
		return uuid.Nil, ErrAffiliateNotFound
	}
	return affiliate.ID, nil
}

// ConversionRate is sales per 100 clicks rounded to 2 decimals, 0 without clicks
func ConversionRate(sales, clicks int64) float64 {
	if clicks <= 0 {
		return 0
	}
	return round2(float64(sales) / float64(clicks) * 100)
}

// EarningsPerClick is revenue per click rounded to 2 decimals, 0 without clicks
func EarningsPerClick(revenue float64, clicks int64) float64 {
	if clicks <= 0 {
		return 0
	}
	return round2(revenue / float64(clicks))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampPage(limit, offset, defaultLimit, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
