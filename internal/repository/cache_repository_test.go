package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/config"
	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/SergeiKhy/shorturl-service/internal/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (repository.CacheRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	db, err := repository.NewRedisClient(config.RedisConfig{
		Host: mr.Host(),
		Port: mr.Port(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewCacheRepository(db), mr
}

func TestCacheRepository_SetGet(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	link := &models.Link{
		ID:              7,
		ShortCode:       "abc123",
		OriginalURL:     "https://example.com",
		OwnerID:         "8f0b1c1e-4c1d-4d61-9d8e-3f2a9c6f1a11",
		ValidityMinutes: 30,
		CreatedAt:       created,
		ExpiresAt:       created.Add(30 * time.Minute),
	}

	require.NoError(t, cache.Set(ctx, link, time.Minute))
	assert.True(t, mr.Exists("link:abc123"))
	assert.Equal(t, time.Minute, mr.TTL("link:abc123"))

	got, err := cache.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, link.OriginalURL, got.OriginalURL)
	assert.Equal(t, link.OwnerID, got.OwnerID)
	assert.True(t, link.ExpiresAt.Equal(got.ExpiresAt))
}

func TestCacheRepository_Miss(t *testing.T) {
	cache, _ := setupCache(t)

	_, err := cache.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestCacheRepository_ExpiresWithTTL(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	link := &models.Link{ShortCode: "short1", OriginalURL: "https://example.com"}
	require.NoError(t, cache.Set(ctx, link, 10*time.Second))

	mr.FastForward(11 * time.Second)

	_, err := cache.Get(ctx, "short1")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestCacheRepository_SkipsNonPositiveTTL(t *testing.T) {
	cache, mr := setupCache(t)

	link := &models.Link{ShortCode: "gone", OriginalURL: "https://example.com"}
	require.NoError(t, cache.Set(context.Background(), link, 0))
	assert.False(t, mr.Exists("link:gone"))
}

func TestCacheRepository_Unavailable(t *testing.T) {
	cache, mr := setupCache(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "abc123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrCacheMiss)
}

func TestNewRedisClient_SelectsDB(t *testing.T) {
	mr := miniredis.RunT(t)
	db, err := repository.NewRedisClient(config.RedisConfig{
		Host:     mr.Host(),
		Port:     mr.Port(),
		DB:       2,
		PoolSize: 10,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Ping(context.Background()))

	cache := repository.NewCacheRepository(db)
	link := &models.Link{ShortCode: "db2code", OriginalURL: "https://example.com"}
	require.NoError(t, cache.Set(context.Background(), link, time.Minute))

	assert.True(t, mr.DB(2).Exists("link:db2code"))
	assert.False(t, mr.DB(0).Exists("link:db2code"))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := repository.NewRedisClient(config.RedisConfig{Host: host, Port: port})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
