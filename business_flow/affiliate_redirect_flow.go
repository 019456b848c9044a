package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/google/uuid"
)

// AffiliateRedirectFlow resolves a short code to the product landing page.
// A click is recorded for every resolved link before the product lookup.
// Public flow, no authentication required
type AffiliateRedirectFlow interface {
	Resolve(ctx context.Context, code string, meta *ClientMetadata) (*RedirectResult, error)
}

// RedirectResult carries everything the handler needs for the 302
type RedirectResult struct {
	Link          *models.AffiliateLink
	Location      string
	Cookie        string
	ClickRecorded bool
}

type AffiliateRedirectFlowImpl struct {
	links        repository.AffiliateLinkRepository
	products     repository.ProductRepository
	clicks       repository.ClickRepository
	clickTimeout time.Duration
}

func NewAffiliateRedirectFlow(
	links repository.AffiliateLinkRepository,
	products repository.ProductRepository,
	clicks repository.ClickRepository,
	clickTimeout time.Duration,
) AffiliateRedirectFlow {
	return &AffiliateRedirectFlowImpl{
		links:        links,
		products:     products,
		clicks:       clicks,
		clickTimeout: clickTimeout,
	}
}

func (f *AffiliateRedirectFlowImpl) Resolve(ctx context.Context, code string, meta *ClientMetadata) (*RedirectResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		observeRedirect(RedirectOutcomeInvalidCode)
		return nil, ErrInvalidAffiliateCode
	}

	link, err := f.links.ByCode(ctx, code)
	if err != nil {
		observeRedirect(RedirectOutcomeError)
		return nil, NewBusinessError("AFFILIATE_LINK_LOOKUP_FAILED", "Failed to lookup affiliate link", err)
	}
	if link == nil {
		observeRedirect(RedirectOutcomeLinkNotFound)
		return nil, ErrAffiliateLinkNotFound
	}

	recorded := f.recordClickBestEffort(ctx, link, meta)

	product, err := f.products.ByID(ctx, link.ProductID)
	if err != nil {
		observeRedirect(RedirectOutcomeError)
		return nil, NewBusinessError("PRODUCT_LOOKUP_FAILED", "Failed to lookup product", err)
	}
	if product == nil || strings.TrimSpace(utils.DerefString(product.LandingURL)) == "" {
		observeRedirect(RedirectOutcomeProductMissing)
		return nil, ErrProductNotFound
	}

	dest, err := NormalizeLandingURL(*product.LandingURL)
	if err != nil {
		observeRedirect(RedirectOutcomeInvalidURL)
		return nil, err
	}
	location, err := WithAttributionParam(dest, link.ID)
	if err != nil {
		observeRedirect(RedirectOutcomeInvalidURL)
		return nil, err
	}

	observeRedirect(RedirectOutcomeRedirected)
	return &RedirectResult{
		Link:          link,
		Location:      location,
		Cookie:        AttributionCookie(link.ID),
		ClickRecorded: recorded,
	}, nil
}

// recordClickBestEffort awaits the click insert but never fails the redirect
func (f *AffiliateRedirectFlowImpl) recordClickBestEffort(ctx context.Context, link *models.AffiliateLink, meta *ClientMetadata) bool {
	if meta == nil {
		meta = NewClientMetadata(unknownClientValue, unknownClientValue)
	}

	writeCtx := ctx
	if f.clickTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, f.clickTimeout)
		defer cancel()
	}

	click := &models.Click{
		ID:             uuid.New(),
		LinkID:         link.ID,
		IP:             meta.IPAddress,
		UserAgent:      meta.UserAgent,
		Referer:        meta.Referer,
		AcceptLanguage: meta.AcceptLanguage,
		AcceptEncoding: meta.AcceptEncoding,
		Fingerprint:    utils.ToPtr(ClickFingerprint(meta.IPAddress, meta.UserAgent)),
		CreatedAt:      utils.UTCNow(),
	}
	if err := f.clicks.Save(writeCtx, click); err != nil {
		clickWriteFailuresTotal.Inc()
		logging.Ctx(ctx).Warn().Err(err).
			Str("link_id", link.ID.String()).
			Str("code", link.Code).
			Msg("failed to record click")
		f.evictCachedLink(ctx, link.Code)
		return false
	}
	return true
}

// evictCachedLink forgets a cached link whose click could not be stored, so
// a link removed from the store stops resolving on the next visit
func (f *AffiliateRedirectFlowImpl) evictCachedLink(ctx context.Context, code string) {
	cache, ok := f.links.(repository.LinkCacheInvalidator)
	if !ok {
		return
	}
	if err := cache.Invalidate(ctx, code); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("code", code).Msg("failed to evict cached link")
	}
}
