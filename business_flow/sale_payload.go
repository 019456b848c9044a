package businessflow

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// SalePayload is the fixed internal shape of a loosely typed sale notification
type SalePayload struct {
	LinkID  *string
	OrderID *string
	Amount  *float64
}

// Field names accepted for each sale attribute, highest priority first
var (
	saleLinkIDFields  = []string{"link_id", "aff_link_id", "linkId"}
	saleOrderIDFields = []string{"order_id", "orderId", "order"}
	saleAmountFields  = []string{"amount", "total", "value"}
)

// NormalizeSalePayload maps a decoded JSON body onto SalePayload.
// For every attribute the first field name present with a usable value wins:
// link_id > aff_link_id > linkId, order_id > orderId > order and
// amount > total > value. Identifiers may be strings or numbers; amounts may be
// numbers or numeric strings. Unusable values count as absent.
func NormalizeSalePayload(body map[string]any) SalePayload {
	var p SalePayload
	for _, k := range saleLinkIDFields {
		if s, ok := payloadString(body[k]); ok {
			p.LinkID = &s
			break
		}
	}
	for _, k := range saleOrderIDFields {
		if s, ok := payloadString(body[k]); ok {
			p.OrderID = &s
			break
		}
	}
	for _, k := range saleAmountFields {
		if f, ok := payloadNumber(body[k]); ok {
			p.Amount = &f
			break
		}
	}
	return p
}

func payloadString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

func payloadNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		return ParseFloatPrefix(t)
	default:
		return 0, false
	}
}

var floatPrefixPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseFloatPrefix parses the longest leading decimal number of s after
// skipping leading whitespace, so "12.5USD" is 12.5. It reports false when
// no number starts the string.
func ParseFloatPrefix(s string) (float64, bool) {
	m := floatPrefixPattern.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
