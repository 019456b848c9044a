package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Redirect outcomes
const (
	RedirectOutcomeRedirected     = "redirected"
	RedirectOutcomeInvalidCode    = "invalid_code"
	RedirectOutcomeLinkNotFound   = "link_not_found"
	RedirectOutcomeProductMissing = "product_not_found"
	RedirectOutcomeInvalidURL     = "invalid_url"
	RedirectOutcomeError          = "error"
)

// Sale modes
const (
	SaleModePixel = "pixel"
	SaleModeAPI   = "api"
)

var (
	redirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_redirects_total",
			Help: "Redirect requests partitioned by outcome",
		},
		[]string{"outcome"},
	)

	clickWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affiliate_click_write_failures_total",
			Help: "Click inserts that failed without blocking the redirect",
		},
	)

	salesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_sales_total",
			Help: "Recorded sales partitioned by invocation mode",
		},
		[]string{"mode"},
	)

	commissionSum = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affiliate_commission_sum",
			Help: "Sum of commission over recorded sales",
		},
	)
)

func observeRedirect(outcome string) {
	redirectsTotal.WithLabelValues(outcome).Inc()
}

func observeSale(mode string, commission float64) {
	salesTotal.WithLabelValues(mode).Inc()
	// Counters reject negative values
	if commission > 0 {
		commissionSum.Add(commission)
	}
}
