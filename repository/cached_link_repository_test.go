package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/repository"
	testingutil "github.com/amirphl/affiliate-rhonat/testing"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLinkRepository struct {
	mock.Mock
	repository.AffiliateLinkRepository
}

func (m *mockLinkRepository) ByCode(ctx context.Context, code string) (*models.AffiliateLink, error) {
	args := m.Called(ctx, code)
	link, _ := args.Get(0).(*models.AffiliateLink)
	return link, args.Error(1)
}

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if !testingutil.IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
	ctx := context.Background()
	rc, err := testingutil.StartRedis(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Terminate(context.Background()) })

	opt, err := redis.ParseURL(rc.URL)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedLinkRepositoryCachesHits(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	link := &models.AffiliateLink{ID: uuid.New(), Code: "HIT", ProductID: uuid.New(), AffiliateID: uuid.New(), CreatedAt: time.Now().UTC().Truncate(time.Second)}
	next := &mockLinkRepository{}
	next.On("ByCode", mock.Anything, "HIT").Return(link, nil).Once()

	repo := repository.NewCachedAffiliateLinkRepository(next, rdb, "test:", time.Minute)

	first, err := repo.ByCode(ctx, "HIT")
	require.NoError(t, err)
	second, err := repo.ByCode(ctx, "HIT")
	require.NoError(t, err)

	assert.Equal(t, link.ID, first.ID)
	assert.Equal(t, link.ID, second.ID)
	assert.True(t, link.CreatedAt.Equal(second.CreatedAt))
	next.AssertNumberOfCalls(t, "ByCode", 1)

	ttl, err := rdb.TTL(ctx, repository.LinkCacheKey("test:", "HIT")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestCachedLinkRepositoryDoesNotCacheMisses(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	next := &mockLinkRepository{}
	next.On("ByCode", mock.Anything, "MISS").Return(nil, nil).Twice()

	repo := repository.NewCachedAffiliateLinkRepository(next, rdb, "test:", time.Minute)
	for range 2 {
		link, err := repo.ByCode(ctx, "MISS")
		require.NoError(t, err)
		assert.Nil(t, link)
	}
	next.AssertExpectations(t)

	n, err := rdb.Exists(ctx, repository.LinkCacheKey("test:", "MISS")).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCachedLinkRepositoryFallsThroughWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	link := &models.AffiliateLink{ID: uuid.New(), Code: "DOWN"}
	next := &mockLinkRepository{}
	next.On("ByCode", mock.Anything, "DOWN").Return(link, nil)

	repo := repository.NewCachedAffiliateLinkRepository(next, rdb, "test:", time.Minute)
	got, err := repo.ByCode(context.Background(), "DOWN")
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
}

func TestCachedLinkRepositoryInvalidate(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	link := &models.AffiliateLink{ID: uuid.New(), Code: "GONE", ProductID: uuid.New(), AffiliateID: uuid.New()}
	next := &mockLinkRepository{}
	next.On("ByCode", mock.Anything, "GONE").Return(link, nil).Once()
	next.On("ByCode", mock.Anything, "GONE").Return(nil, nil).Once()

	repo := repository.NewCachedAffiliateLinkRepository(next, rdb, "test:", time.Hour)

	cached, err := repo.ByCode(ctx, "GONE")
	require.NoError(t, err)
	require.NotNil(t, cached)

	require.NoError(t, repo.Invalidate(ctx, "GONE"))
	exists, err := rdb.Exists(ctx, repository.LinkCacheKey("test:", "GONE")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	gone, err := repo.ByCode(ctx, "GONE")
	require.NoError(t, err)
	assert.Nil(t, gone)
	next.AssertExpectations(t)
}
