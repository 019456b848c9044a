package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesAreOrdered(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"0001_create_tables.sql",
		"0002_create_indexes.sql",
		"0003_create_report_functions.sql",
		"0004_create_product_gravity_view.sql",
	}, names)
}

func TestReportFunctionsAreDefined(t *testing.T) {
	body, err := files.ReadFile("0003_create_report_functions.sql")
	require.NoError(t, err)

	for _, fn := range []string{
		"get_affiliate_stats_enriched",
		"get_affiliate_clicks_details",
		"get_affiliate_conversions",
		"admin_aggregates",
		"get_sales_export",
	} {
		assert.Contains(t, string(body), "FUNCTION "+fn+"(", fn)
	}
}

func TestSalesOrderIDIsNotUnique(t *testing.T) {
	body, err := files.ReadFile("0001_create_tables.sql")
	require.NoError(t, err)
	assert.NotContains(t, string(body), "UNIQUE (order_id")
}
