package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportRepositoryImpl calls the reporting functions and views created by
// the migrations
type ReportRepositoryImpl struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

func (r *ReportRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *ReportRepositoryImpl) AffiliateStats(ctx context.Context, affiliateID uuid.UUID) (*models.AffiliateStats, error) {
	var row models.AffiliateStats
	err := r.conn(ctx).
		Raw("SELECT clicks, sales, revenue, commission FROM get_affiliate_stats_enriched(?)", affiliateID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load affiliate stats: %w", err)
	}
	return &row, nil
}

func (r *ReportRepositoryImpl) ClickDetails(ctx context.Context, affiliateID uuid.UUID, limit, offset int) ([]*models.ClickDetail, error) {
	var rows []*models.ClickDetail
	err := r.conn(ctx).
		Raw("SELECT * FROM get_affiliate_clicks_details(?, ?, ?)", affiliateID, limit, offset).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load click details: %w", err)
	}
	return rows, nil
}

func (r *ReportRepositoryImpl) Conversions(ctx context.Context, affiliateID uuid.UUID, limit, offset int) ([]*models.Conversion, error) {
	var rows []*models.Conversion
	err := r.conn(ctx).
		Raw("SELECT * FROM get_affiliate_conversions(?, ?, ?)", affiliateID, limit, offset).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conversions: %w", err)
	}
	return rows, nil
}

func (r *ReportRepositoryImpl) AdminAggregates(ctx context.Context) (*models.AdminAggregates, error) {
	var raw []byte
	if err := r.conn(ctx).Raw("SELECT admin_aggregates()").Row().Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to load admin aggregates: %w", err)
	}
	var out models.AdminAggregates
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode admin aggregates: %w", err)
	}
	return &out, nil
}

func (r *ReportRepositoryImpl) ProductGravity(ctx context.Context, limit int) ([]*models.ProductGravity, error) {
	query := r.conn(ctx).Table("product_gravity").Order("gravity_score DESC, sales_30d DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []*models.ProductGravity
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load product gravity: %w", err)
	}
	return rows, nil
}

func (r *ReportRepositoryImpl) SalesForExport(ctx context.Context, from, to time.Time) ([]*models.SaleExportRow, error) {
	var rows []*models.SaleExportRow
	err := r.conn(ctx).
		Raw("SELECT * FROM get_sales_export(?, ?)", from, to).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sales export: %w", err)
	}
	return rows, nil
}
