package businessflow

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLandingURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare host gets https", raw: "brand.com/thanks", want: "https://brand.com/thanks"},
		{name: "https kept", raw: "https://brand.com/p?x=1", want: "https://brand.com/p?x=1"},
		{name: "http kept", raw: "http://brand.com", want: "http://brand.com"},
		{name: "scheme match is case insensitive", raw: "HTTPS://Brand.com", want: "HTTPS://Brand.com"},
		{name: "surrounding whitespace trimmed", raw: "  shop.example.com  ", want: "https://shop.example.com"},
		{name: "blank", raw: "   ", wantErr: true},
		{name: "scheme without host", raw: "https://", wantErr: true},
		{name: "unparseable", raw: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeLandingURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsInvalidLandingURL(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithAttributionParam(t *testing.T) {
	id := uuid.MustParse("3f0c5e0e-8a3b-4c1e-9c55-2b8d0f6f1a10")

	t.Run("appends to bare url", func(t *testing.T) {
		got, err := WithAttributionParam("https://brand.com/thanks", id)
		require.NoError(t, err)
		assert.Equal(t, "https://brand.com/thanks?aff_link_id="+id.String(), got)
	})

	tests := []struct {
		name string
		dest string
		want string
	}{
		{
			name: "appends after existing params in their order",
			dest: "https://shop.example.com/p?utm_source=x&campaign=summer",
			want: "https://shop.example.com/p?utm_source=x&campaign=summer&aff_link_id=" + id.String(),
		},
		{
			name: "keeps bare keys and escapes untouched",
			dest: "https://shop.example.com/p?ref=a%2Fb&flag",
			want: "https://shop.example.com/p?ref=a%2Fb&flag&aff_link_id=" + id.String(),
		},
		{
			name: "drops stale ids wherever they are",
			dest: "https://brand.com/p?aff_link_id=old&utm_source=x&aff%5Flink%5Fid=older&sig=abc",
			want: "https://brand.com/p?utm_source=x&sig=abc&aff_link_id=" + id.String(),
		},
		{
			name: "empty query",
			dest: "https://brand.com/p?",
			want: "https://brand.com/p?aff_link_id=" + id.String(),
		},
		{
			name: "fragment stays last",
			dest: "https://brand.com/p?b=2&a=1#reviews",
			want: "https://brand.com/p?b=2&a=1&aff_link_id=" + id.String() + "#reviews",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithAttributionParam(tt.dest, id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeCommission(t *testing.T) {
	assert.InDelta(t, 30.0, ComputeCommission(100, 30), 1e-12)
	assert.InDelta(t, 3.3333, ComputeCommission(33.333, 10), 1e-12)
	assert.Zero(t, ComputeCommission(0, 50))
	assert.Zero(t, ComputeCommission(100, 0))
}

func TestAttributionCookie(t *testing.T) {
	id := uuid.MustParse("3f0c5e0e-8a3b-4c1e-9c55-2b8d0f6f1a10")
	assert.Equal(t,
		"aff_link_id=3f0c5e0e-8a3b-4c1e-9c55-2b8d0f6f1a10; Path=/; Max-Age=2592000; SameSite=Lax; Secure",
		AttributionCookie(id))
}

func TestClickFingerprint(t *testing.T) {
	a := ClickFingerprint("1.2.3.4", "Mozilla")
	assert.Len(t, a, 64)
	assert.Equal(t, a, ClickFingerprint("1.2.3.4", "Mozilla"))
	assert.NotEqual(t, a, ClickFingerprint("1.2.3.5", "Mozilla"))
	assert.NotEqual(t, a, ClickFingerprint("1.2.3.4", "curl"))
}

func TestNormalizeClientMetadata(t *testing.T) {
	t.Run("first forwarded address wins", func(t *testing.T) {
		meta := NormalizeClientMetadata(headerMap{
			"X-Forwarded-For": " 203.0.113.9 , 10.0.0.1",
			"User-Agent":      "Mozilla/5.0",
			"Referer":         "https://blog.example.com",
			"Accept-Language": "fr-FR",
			"Accept-Encoding": "gzip",
		}, "10.0.0.2")
		assert.Equal(t, "203.0.113.9", meta.IPAddress)
		assert.Equal(t, "Mozilla/5.0", meta.UserAgent)
		require.NotNil(t, meta.Referer)
		assert.Equal(t, "https://blog.example.com", *meta.Referer)
		require.NotNil(t, meta.AcceptLanguage)
		assert.Equal(t, "fr-FR", *meta.AcceptLanguage)
		require.NotNil(t, meta.AcceptEncoding)
		assert.Equal(t, "gzip", *meta.AcceptEncoding)
	})

	t.Run("peer address fallback", func(t *testing.T) {
		meta := NormalizeClientMetadata(headerMap{}, "10.0.0.2")
		assert.Equal(t, "10.0.0.2", meta.IPAddress)
	})

	t.Run("defaults when nothing is known", func(t *testing.T) {
		meta := NormalizeClientMetadata(headerMap{}, "")
		assert.Equal(t, "unknown", meta.IPAddress)
		assert.Equal(t, "unknown", meta.UserAgent)
		assert.Nil(t, meta.Referer)
		assert.Nil(t, meta.AcceptLanguage)
		assert.Nil(t, meta.AcceptEncoding)
	})

	t.Run("referrer spelling accepted", func(t *testing.T) {
		meta := NormalizeClientMetadata(headerMap{"Referrer": "https://a.example"}, "")
		require.NotNil(t, meta.Referer)
		assert.Equal(t, "https://a.example", *meta.Referer)
	})

	t.Run("x-real-ip is not consulted", func(t *testing.T) {
		meta := NormalizeClientMetadata(headerMap{"X-Real-IP": "192.0.2.44"}, "10.0.0.3")
		assert.Equal(t, "10.0.0.3", meta.IPAddress)
	})
}

func TestNormalizeSalePayload(t *testing.T) {
	decode := func(t *testing.T, body string) map[string]any {
		t.Helper()
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &m))
		return m
	}

	tests := []struct {
		name    string
		body    string
		linkID  *string
		orderID *string
		amount  *float64
	}{
		{
			name:    "canonical names",
			body:    `{"link_id":"L1","order_id":"O1","amount":100}`,
			linkID:  strPtr("L1"),
			orderID: strPtr("O1"),
			amount:  floatPtr(100),
		},
		{
			name:    "link_id beats aff_link_id and linkId",
			body:    `{"linkId":"C","aff_link_id":"B","link_id":"A","order_id":"O","amount":1}`,
			linkID:  strPtr("A"),
			orderID: strPtr("O"),
			amount:  floatPtr(1),
		},
		{
			name:    "secondary names",
			body:    `{"aff_link_id":"B","orderId":"O2","total":"49.90"}`,
			linkID:  strPtr("B"),
			orderID: strPtr("O2"),
			amount:  floatPtr(49.9),
		},
		{
			name:    "tertiary names and numeric order",
			body:    `{"linkId":"C","order":1234,"value":12.5}`,
			linkID:  strPtr("C"),
			orderID: strPtr("1234"),
			amount:  floatPtr(12.5),
		},
		{
			name:    "blank link id falls through to the next name",
			body:    `{"link_id":"  ","aff_link_id":"B","order_id":"O","amount":0}`,
			linkID:  strPtr("B"),
			orderID: strPtr("O"),
			amount:  floatPtr(0),
		},
		{
			name:    "non numeric amount is absent",
			body:    `{"order_id":"O","amount":"abc"}`,
			orderID: strPtr("O"),
		},
		{
			name: "empty body",
			body: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NormalizeSalePayload(decode(t, tt.body))
			assert.Equal(t, tt.linkID, p.LinkID)
			assert.Equal(t, tt.orderID, p.OrderID)
			if tt.amount == nil {
				assert.Nil(t, p.Amount)
			} else {
				require.NotNil(t, p.Amount)
				assert.InDelta(t, *tt.amount, *p.Amount, 1e-9)
			}
		})
	}
}

func TestParseFloatPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100", 100, true},
		{"  12.5USD", 12.5, true},
		{"-3", -3, true},
		{".5", 0.5, true},
		{"1e3", 1000, true},
		{"1e", 1, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFloatPrefix(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestReportingRatios(t *testing.T) {
	assert.Zero(t, ConversionRate(3, 0))
	assert.Zero(t, EarningsPerClick(300, 0))
	assert.Equal(t, 33.33, ConversionRate(1, 3))
	assert.Equal(t, 5.0, ConversionRate(6, 120))
	assert.Equal(t, 0.67, EarningsPerClick(2, 3))
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
