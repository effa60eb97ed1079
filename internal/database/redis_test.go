package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/testutil"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	redisClient := database.NewRedisClientForTesting(client, testutil.TestConfig(), testutil.TestLogger())

	t.Cleanup(func() {
		redisClient.Close()
		mr.Close()
	})

	return mr, redisClient
}

// ==================== REDIS SESSION TESTS ====================

func TestRedisClient_SessionLifecycle(t *testing.T) {
	mr, redisClient := setupMiniRedis(t)
	ctx := context.Background()

	err := redisClient.CreateSession(ctx, "sid-1", "user-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:sid-1"))

	userID, ok, err := redisClient.GetSessionUserID(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, redisClient.DeleteSession(ctx, "sid-1"))

	_, ok, err = redisClient.GetSessionUserID(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisClient_SessionExpires(t *testing.T) {
	mr, redisClient := setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, redisClient.CreateSession(ctx, "sid-1", "user-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := redisClient.GetSessionUserID(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisClient_UnknownSession(t *testing.T) {
	_, redisClient := setupMiniRedis(t)

	userID, ok, err := redisClient.GetSessionUserID(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, userID)
}

func TestRedisClient_ServerDown(t *testing.T) {
	mr, redisClient := setupMiniRedis(t)
	mr.Close()

	_, ok, err := redisClient.GetSessionUserID(context.Background(), "sid-1")

	assert.Error(t, err)
	assert.False(t, ok)
}

// ==================== MEMORY SESSION TESTS ====================

func TestMemorySessionStore(t *testing.T) {
	store := database.NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, "sid-1", "user-1", time.Hour))

	userID, ok, err := store.GetSessionUserID(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, store.DeleteSession(ctx, "sid-1"))
	_, ok, _ = store.GetSessionUserID(ctx, "sid-1")
	assert.False(t, ok)

	assert.NoError(t, store.Close())
}

func TestMemorySessionStore_Expired(t *testing.T) {
	store := database.NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, "sid-1", "user-1", -time.Second))

	_, ok, err := store.GetSessionUserID(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySessionStore_Sweep(t *testing.T) {
	store := database.NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, "stale-1", "user-1", -time.Second))
	require.NoError(t, store.CreateSession(ctx, "stale-2", "user-2", -time.Minute))
	require.NoError(t, store.CreateSession(ctx, "live", "user-3", time.Hour))

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 1, store.Len())

	userID, ok, err := store.GetSessionUserID(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-3", userID)
}

func TestMemorySessionStore_RunSweeper(t *testing.T) {
	store := database.NewMemorySessionStore()
	require.NoError(t, store.CreateSession(context.Background(), "stale", "user-1", -time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestSessionStoreImplementations(t *testing.T) {
	var _ database.SessionStore = database.NewMemorySessionStore()
	var _ database.SessionStore = (*database.RedisClient)(nil)
}
