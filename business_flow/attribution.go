package businessflow

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// NormalizeLandingURL keeps an http(s) URL as is and prefixes anything else
// with https://. The result must parse with a non-empty host.
func NormalizeLandingURL(raw string) (string, error) {
	dest := strings.TrimSpace(raw)
	if dest == "" {
		return "", ErrInvalidLandingURL
	}
	if !schemePattern.MatchString(dest) {
		dest = "https://" + dest
	}

	u, err := url.Parse(dest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLandingURL, err)
	}
	if u.Host == "" {
		return "", ErrInvalidLandingURL
	}
	return dest, nil
}

// WithAttributionParam appends aff_link_id to dest. Earlier aff_link_id pairs
// are dropped; every other pair keeps its original order and encoding.
func WithAttributionParam(dest string, linkID uuid.UUID) (string, error) {
	u, err := url.Parse(dest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLandingURL, err)
	}

	var pairs []string
	if u.RawQuery != "" {
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" || isAttributionPair(pair) {
				continue
			}
			pairs = append(pairs, pair)
		}
	}
	pairs = append(pairs, utils.AttributionQueryParam+"="+linkID.String())

	u.RawQuery = strings.Join(pairs, "&")
	u.ForceQuery = false
	return u.String(), nil
}

func isAttributionPair(pair string) bool {
	key, _, _ := strings.Cut(pair, "=")
	if unescaped, err := url.QueryUnescape(key); err == nil {
		key = unescaped
	}
	return key == utils.AttributionQueryParam
}

// ComputeCommission returns amount * percent / 100 without rounding
func ComputeCommission(amount, percent float64) float64 {
	return amount * percent / 100
}

// AttributionCookie renders the Set-Cookie value for a resolved link
func AttributionCookie(linkID uuid.UUID) string {
	return fmt.Sprintf("%s=%s; Path=/; Max-Age=%d; SameSite=Lax; Secure",
		utils.AttributionCookieName, linkID.String(), utils.AttributionCookieMaxAgeSeconds)
}

// ClickFingerprint is the hex BLAKE2b-256 digest of "ip|user_agent"
func ClickFingerprint(ip, userAgent string) string {
	sum := blake2b.Sum256([]byte(ip + "|" + userAgent))
	return hex.EncodeToString(sum[:])
}
