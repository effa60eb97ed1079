package cache_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/cache"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
)

func setupListCache(t *testing.T) (*miniredis.Miniredis, cache.ListCache) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, cache.NewRedisListCache(client, time.Minute, logger)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "library:user-1:user-books", cache.Key("user-1", cache.ListUserBooks))
	assert.Equal(t, "library:anon:suggested-books", cache.Key("", cache.ListSuggestedBooks))
	assert.Equal(t, "library:u:generation", cache.GenerationKey("u"))
	assert.ElementsMatch(t, []string{
		"library:u:user-books",
		"library:u:favorite-books",
		"library:u:suggested-books",
	}, cache.UserKeys("u"))
}

func TestRedisListCache_SetAndGet(t *testing.T) {
	mr, c := setupListCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "user-1", cache.ListUserBooks)
	require.NoError(t, err)
	assert.False(t, ok)

	books := []dto.Book{
		{ID: "b1", Title: "Dune", Author: "Frank Herbert"},
		{ID: "b2", Title: "1984", Author: "George Orwell"},
	}
	stored, err := c.Set(ctx, "user-1", cache.ListUserBooks, 0, books)
	require.NoError(t, err)
	assert.True(t, stored)

	got, ok, err := c.Get(ctx, "user-1", cache.ListUserBooks)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, books, got)

	assert.Equal(t, time.Minute, mr.TTL(cache.Key("user-1", cache.ListUserBooks)))
}

func TestRedisListCache_EmptyListIsAHit(t *testing.T) {
	_, c := setupListCache(t)
	ctx := context.Background()

	_, err := c.Set(ctx, "user-1", cache.ListFavoriteBooks, 0, nil)
	require.NoError(t, err)

	got, ok, err := c.Get(ctx, "user-1", cache.ListFavoriteBooks)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedisListCache_Invalidate(t *testing.T) {
	mr, c := setupListCache(t)
	ctx := context.Background()

	for _, list := range []string{cache.ListUserBooks, cache.ListFavoriteBooks, cache.ListSuggestedBooks} {
		_, err := c.Set(ctx, "user-1", list, 0, []dto.Book{{ID: "b1"}})
		require.NoError(t, err)
	}
	_, err := c.Set(ctx, "user-2", cache.ListUserBooks, 0, []dto.Book{{ID: "b2"}})
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, "user-1"))

	for _, key := range cache.UserKeys("user-1") {
		assert.False(t, mr.Exists(key))
	}
	assert.True(t, mr.Exists(cache.Key("user-2", cache.ListUserBooks)))

	generation, err := c.Generation(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), generation)
	assert.True(t, mr.TTL(cache.GenerationKey("user-1")) > 0)

	generation, err = c.Generation(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), generation)
}

func TestRedisListCache_FillAfterInvalidateIsDropped(t *testing.T) {
	mr, c := setupListCache(t)
	ctx := context.Background()

	// A load starts, then a mutation invalidates before the load finishes
	generation, err := c.Generation(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, "user-1"))

	stored, err := c.Set(ctx, "user-1", cache.ListUserBooks, generation, []dto.Book{{ID: "deleted"}})
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(cache.Key("user-1", cache.ListUserBooks)))

	current, err := c.Generation(ctx, "user-1")
	require.NoError(t, err)
	stored, err = c.Set(ctx, "user-1", cache.ListUserBooks, current, []dto.Book{})
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestRedisListCache_CorruptEntryIsAMiss(t *testing.T) {
	mr, c := setupListCache(t)
	key := cache.Key("user-1", cache.ListUserBooks)
	require.NoError(t, mr.Set(key, "not json"))

	_, ok, err := c.Get(context.Background(), "user-1", cache.ListUserBooks)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(key))
}

func TestNoopListCache(t *testing.T) {
	c := cache.NewNoopListCache()
	ctx := context.Background()

	stored, err := c.Set(ctx, "user-1", cache.ListUserBooks, 0, []dto.Book{{ID: "b1"}})
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(ctx, "user-1", cache.ListUserBooks)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, "user-1"))
}
