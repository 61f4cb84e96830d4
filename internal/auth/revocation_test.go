package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryRevocationStore{revoked: map[string]time.Time{}, now: func() time.Time { return now }}

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationStore(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewRedisRevocationStore(db)
	store.now = func() time.Time { return now }

	mock.ExpectSet("revoked_token:jti-1", "1", 10*time.Minute).SetVal("OK")
	require.NoError(t, store.Revoke(ctx, "jti-1", now.Add(10*time.Minute)))

	mock.ExpectGet("revoked_token:jti-1").SetVal("1")
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mock.ExpectGet("revoked_token:jti-2").RedisNil()
	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mock.ExpectGet("revoked_token:jti-3").SetErr(errors.New("connection refused"))
	_, err = store.IsRevoked(ctx, "jti-3")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, redis.Nil))

	// already expired tokens are not written
	require.NoError(t, store.Revoke(ctx, "jti-4", now.Add(-time.Minute)))

	assert.NoError(t, mock.ExpectationsWereMet())
}
