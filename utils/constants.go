package utils

// Attribution constants
const (
	// AttributionCookieName carries the last clicked affiliate link id
	AttributionCookieName = "aff_link_id"

	// AttributionQueryParam is appended to redirect destinations for cookie-less tracking
	AttributionQueryParam = "aff_link_id"

	// AttributionCookieMaxAgeSeconds is the attribution window in seconds (2592000 seconds = 30 days)
	AttributionCookieMaxAgeSeconds = 2592000
)

// Pagination defaults for reporting endpoints
const (
	DefaultClicksPageSize = 100
	MaxClicksPageSize     = 500
	DefaultTopAffiliates  = 10
)

// TrackingPixelGIF is a transparent 1x1 GIF (base64 R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7)
var TrackingPixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x01, 0x44, 0x00, 0x3b,
}
