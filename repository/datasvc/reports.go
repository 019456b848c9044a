package datasvc

import (
	"context"
	"fmt"
	"time"

	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/google/uuid"
)

// ReportRepository calls the reporting functions as RPCs
type ReportRepository struct {
	client *Client
}

func NewReportRepository(c *Client) repository.ReportRepository {
	return &ReportRepository{client: c}
}

type pageArgs struct {
	AffiliateID uuid.UUID `json:"p_affiliate_id"`
	Limit       int       `json:"limit_count"`
	Offset      int       `json:"offset_count"`
}

func (r *ReportRepository) AffiliateStats(ctx context.Context, affiliateID uuid.UUID) (*models.AffiliateStats, error) {
	var rows []models.AffiliateStats
	args := map[string]any{"p_affiliate_id": affiliateID}
	if err := r.client.RPC(ctx, "get_affiliate_stats_enriched", args, &rows); err != nil {
		return nil, fmt.Errorf("failed to load affiliate stats: %w", err)
	}
	if len(rows) == 0 {
		return &models.AffiliateStats{}, nil
	}
	return &rows[0], nil
}

func (r *ReportRepository) ClickDetails(ctx context.Context, affiliateID uuid.UUID, limit, offset int) ([]*models.ClickDetail, error) {
	var rows []*models.ClickDetail
	args := pageArgs{AffiliateID: affiliateID, Limit: limit, Offset: offset}
	if err := r.client.RPC(ctx, "get_affiliate_clicks_details", args, &rows); err != nil {
		return nil, fmt.Errorf("failed to load click details: %w", err)
	}
	return rows, nil
}

func (r *ReportRepository) Conversions(ctx context.Context, affiliateID uuid.UUID, limit, offset int) ([]*models.Conversion, error) {
	var rows []*models.Conversion
	args := pageArgs{AffiliateID: affiliateID, Limit: limit, Offset: offset}
	if err := r.client.RPC(ctx, "get_affiliate_conversions", args, &rows); err != nil {
		return nil, fmt.Errorf("failed to load conversions: %w", err)
	}
	return rows, nil
}

func (r *ReportRepository) AdminAggregates(ctx context.Context) (*models.AdminAggregates, error) {
	var out models.AdminAggregates
	if err := r.client.RPC(ctx, "admin_aggregates", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to load admin aggregates: %w", err)
	}
	return &out, nil
}

func (r *ReportRepository) ProductGravity(ctx context.Context, limit int) ([]*models.ProductGravity, error) {
	var rows []*models.ProductGravity
	q := Query{OrderBy: "gravity_score DESC, sales_30d DESC", Limit: limit}
	if err := r.client.Select(ctx, "product_gravity", q, &rows); err != nil {
		return nil, fmt.Errorf("failed to load product gravity: %w", err)
	}
	return rows, nil
}

func (r *ReportRepository) SalesForExport(ctx context.Context, from, to time.Time) ([]*models.SaleExportRow, error) {
	var rows []*models.SaleExportRow
	args := map[string]any{"p_from": formatTime(from), "p_to": formatTime(to)}
	if err := r.client.RPC(ctx, "get_sales_export", args, &rows); err != nil {
		return nil, fmt.Errorf("failed to load sales export: %w", err)
	}
	return rows, nil
}
