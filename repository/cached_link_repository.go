package repository

import (
	"context"
	"errors"
	"time"

	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// CachedAffiliateLinkRepository serves ByCode from Redis before falling back
// to the wrapped repository. Only hits are cached. Redis failures are logged
// and treated as misses.
type CachedAffiliateLinkRepository struct {
	AffiliateLinkRepository
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewCachedAffiliateLinkRepository(next AffiliateLinkRepository, rdb redis.Cmdable, prefix string, ttl time.Duration) *CachedAffiliateLinkRepository {
	return &CachedAffiliateLinkRepository{
		AffiliateLinkRepository: next,
		rdb:                     rdb,
		prefix:                  prefix,
		ttl:                     ttl,
	}
}

// Invalidate drops the cached entry of a code
func (r *CachedAffiliateLinkRepository) Invalidate(ctx context.Context, code string) error {
	return r.rdb.Del(ctx, LinkCacheKey(r.prefix, code)).Err()
}

// LinkCacheKey returns the Redis key of a link code
func LinkCacheKey(prefix, code string) string {
	return prefix + "link:code:" + code
}

func (r *CachedAffiliateLinkRepository) ByCode(ctx context.Context, code string) (*models.AffiliateLink, error) {
	key := LinkCacheKey(r.prefix, code)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var link models.AffiliateLink
		if jerr := json.Unmarshal(raw, &link); jerr == nil {
			return &link, nil
		}
		logging.Ctx(ctx).Warn().Str("key", key).Msg("discarding undecodable cached link")
	case !errors.Is(err, redis.Nil):
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("link cache read failed")
	}

	link, err := r.AffiliateLinkRepository.ByCode(ctx, code)
	if err != nil || link == nil {
		return link, err
	}

	if payload, jerr := json.Marshal(link); jerr == nil {
		if serr := r.rdb.Set(ctx, key, payload, r.ttl).Err(); serr != nil {
			logging.Ctx(ctx).Warn().Err(serr).Str("key", key).Msg("link cache write failed")
		}
	}
	return link, nil
}
