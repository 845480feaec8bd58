package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepo(t *testing.T) (*TokenRepositoryRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenRepositoryRedis(client, zap.NewNop()), mr
}

func TestRevoke_ThenIsRevoked(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevoke_ExpiresWithToken(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "jti-1", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(revokedKeyPrefix+"jti-1"))

	mr.FastForward(2 * time.Minute)

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevoke_IgnoresExpiredToken(t *testing.T) {
	repo, mr := newTestRepo(t)

	require.NoError(t, repo.Revoke(context.Background(), "jti-1", 0))
	assert.False(t, mr.Exists(revokedKeyPrefix+"jti-1"))
}

func TestIsRevoked_ConnectionError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	repo := NewTokenRepositoryRedis(client, zap.NewNop())
	mr.Close()

	_, err = repo.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}
