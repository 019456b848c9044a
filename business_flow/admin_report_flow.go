package businessflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/xuri/excelize/v2"
)

// Ranking metrics for top affiliates
const (
	MetricClicks  = "clicks"
	MetricSales   = "sales"
	MetricRevenue = "revenue"
)

const salesExportSheet = "Sales"

var salesExportHeader = []string{"Date", "Order ID", "Link Code", "Product", "Brand", "Affiliate", "Amount", "Commission"}

// AdminReportFlow serves the admin dashboard: platform aggregates,
// affiliate leaderboards and the sales spreadsheet.
type AdminReportFlow interface {
	Aggregates(ctx context.Context) (*dto.AdminAggregatesResponse, error)
	TopAffiliates(ctx context.Context, metric string, limit int) (*dto.AdminTopAffiliatesResponse, error)
	ExportSales(ctx context.Context, from, to time.Time) (string, []byte, error)
}

type AdminReportFlowImpl struct {
	reports repository.ReportRepository
}

func NewAdminReportFlow(reports repository.ReportRepository) AdminReportFlow {
	return &AdminReportFlowImpl{reports: reports}
}

func (f *AdminReportFlowImpl) Aggregates(ctx context.Context) (*dto.AdminAggregatesResponse, error) {
	agg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AdminAggregatesResponse{
		ByBrand:     agg.ByBrand,
		ByProduct:   agg.ByProduct,
		ByAffiliate: agg.ByAffiliate,
	}, nil
}

func (f *AdminReportFlowImpl) TopAffiliates(ctx context.Context, metric string, limit int) (*dto.AdminTopAffiliatesResponse, error) {
	metric = strings.ToLower(strings.TrimSpace(metric))
	if metric == "" {
		metric = MetricRevenue
	}
	less, ok := affiliateRankings[metric]
	if !ok {
		return nil, ErrInvalidMetric
	}
	limit, _ = clampPage(limit, 0, utils.DefaultTopAffiliates, 100)

	agg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.AffiliateAggregate, len(agg.ByAffiliate))
	copy(ranked, agg.ByAffiliate)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	items := make([]dto.TopAffiliateDTO, 0, len(ranked))
	for i, a := range ranked {
		items = append(items, dto.TopAffiliateDTO{
			Rank:        i + 1,
			AffiliateID: a.AffiliateID.String(),
			DisplayName: a.DisplayName,
			Clicks:      a.Clicks,
			Sales:       a.Sales,
			Revenue:     a.Revenue,
		})
	}
	return &dto.AdminTopAffiliatesResponse{Metric: metric, Items: items}, nil
}

// affiliateRankings orders by the metric descending, ties broken by name
var affiliateRankings = map[string]func(a, b models.AffiliateAggregate) bool{
	MetricClicks: func(a, b models.AffiliateAggregate) bool {
		if a.Clicks != b.Clicks {
			return a.Clicks > b.Clicks
		}
		return a.DisplayName < b.DisplayName
	},
	MetricSales: func(a, b models.AffiliateAggregate) bool {
		if a.Sales != b.Sales {
			return a.Sales > b.Sales
		}
		return a.DisplayName < b.DisplayName
	},
	MetricRevenue: func(a, b models.AffiliateAggregate) bool {
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.DisplayName < b.DisplayName
	},
}

func (f *AdminReportFlowImpl) load(ctx context.Context) (*models.AdminAggregates, error) {
	agg, err := f.reports.AdminAggregates(ctx)
	if err != nil {
		return nil, NewBusinessError("ADMIN_AGGREGATES_FAILED", "Failed to load admin aggregates", err)
	}
	if agg == nil {
		agg = &models.AdminAggregates{}
	}
	if agg.ByBrand == nil {
		agg.ByBrand = []models.BrandAggregate{}
	}
	if agg.ByProduct == nil {
		agg.ByProduct = []models.ProductAggregate{}
	}
	if agg.ByAffiliate == nil {
		agg.ByAffiliate = []models.AffiliateAggregate{}
	}
	return agg, nil
}

// ExportSales writes the sales in [from, to) to a one sheet workbook
func (f *AdminReportFlowImpl) ExportSales(ctx context.Context, from, to time.Time) (string, []byte, error) {
	if !from.Before(to) {
		return "", nil, ErrInvalidDateRange
	}

	rows, err := f.reports.SalesForExport(ctx, from, to)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_SALES_FAILED", "Failed to fetch sales for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), salesExportSheet); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to prepare Excel sheet", err)
	}
	header := salesExportHeader
	_ = xl.SetSheetRow(salesExportSheet, "A1", &header)

	for ri, r := range rows {
		record := []any{
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.OrderID,
			r.LinkCode,
			r.ProductName,
			r.BrandName,
			r.AffiliateName,
			r.Amount,
			r.Commission,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(salesExportSheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("sales_%s_%s.xlsx", from.UTC().Format("20060102"), to.UTC().Format("20060102"))
	return filename, buf.Bytes(), nil
}
