package businessflow

import (
	"strings"

	"github.com/amirphl/affiliate-rhonat/utils"
)

const RequestIDKey = "X-Request-ID"

const unknownClientValue = "unknown"

// HeaderGetter reads a request header by name, returning "" when absent
type HeaderGetter interface {
	Get(key string) string
}

// ClientMetadata holds the request attributes stored on a click
type ClientMetadata struct {
	IPAddress      string  `json:"ip_address"`
	UserAgent      string  `json:"user_agent"`
	Referer        *string `json:"referer,omitempty"`
	AcceptLanguage *string `json:"accept_language,omitempty"`
	AcceptEncoding *string `json:"accept_encoding,omitempty"`
	RequestID      string  `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// NormalizeClientMetadata extracts click metadata from request headers.
// The IP is the first X-Forwarded-For entry, else peerIP, else "unknown".
// Referer falls back to the misspelled Referrer header.
func NormalizeClientMetadata(headers HeaderGetter, peerIP string) *ClientMetadata {
	ip := ""
	if fwd := headers.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		ip = strings.TrimSpace(first)
	}
	if ip == "" {
		ip = strings.TrimSpace(peerIP)
	}
	if ip == "" {
		ip = unknownClientValue
	}

	ua := headers.Get("User-Agent")
	if strings.TrimSpace(ua) == "" {
		ua = unknownClientValue
	}

	return &ClientMetadata{
		IPAddress:      ip,
		UserAgent:      ua,
		Referer:        utils.NonEmptyPtr(utils.FirstNonEmpty(headers.Get("Referer"), headers.Get("Referrer"))),
		AcceptLanguage: utils.NonEmptyPtr(headers.Get("Accept-Language")),
		AcceptEncoding: utils.NonEmptyPtr(headers.Get("Accept-Encoding")),
		RequestID:      headers.Get(RequestIDKey),
	}
}
