package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	client := NewClientFromRDB(rdb, "development", zap.NewNop())
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestNewClientInvalidURL(t *testing.T) {
	for _, url := range []string{"", "invalid://url", "not a url"} {
		client, err := NewClient(url, "development", zap.NewNop())
		assert.Error(t, err)
		assert.Nil(t, client)
	}
}

func TestSetAndGet(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	key := client.KeyBuilder.KeyCandidatesAll()
	require.NoError(t, client.Set(ctx, key, "payload", TTLCandidates))

	val, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "payload", val)
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	_, client := setupTestRedis(t)

	_, err := client.Get(context.Background(), "staging:voting:absent")
	assert.True(t, IsNil(err))
}

func TestSetNXHoldsUntilExpiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	key := client.KeyBuilder.KeyCastLock("u1", "president")

	ok, err := client.SetNX(ctx, key, "1", TTLCastLock)
	require.NoError(t, err)
	assert.True(t, ok, "first SETNX acquires")

	ok, err = client.SetNX(ctx, key, "1", TTLCastLock)
	require.NoError(t, err)
	assert.False(t, ok, "second SETNX is refused while held")

	mr.FastForward(TTLCastLock + time.Second)

	ok, err = client.SetNX(ctx, key, "1", TTLCastLock)
	require.NoError(t, err)
	assert.True(t, ok, "lock reacquirable after expiry")
}

func TestDeleteAndExists(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	key := client.KeyBuilder.KeyUserCategoryVoted("u1", "president")
	require.NoError(t, client.Set(ctx, key, "1", TTLUserVote))

	n, err := client.Exists(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, client.Delete(ctx, key))

	n, err = client.Exists(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestHealth(t *testing.T) {
	mr, client := setupTestRedis(t)

	require.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
