package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
)

// List names used in cache keys
const (
	ListUserBooks      = "user-books"
	ListFavoriteBooks  = "favorite-books"
	ListSuggestedBooks = "suggested-books"
)

const anonymousViewer = "anon"

// generationTTL must outlive any in-flight list load
const generationTTL = 24 * time.Hour

// setIfGeneration stores a list only while the viewer's generation still
// matches the one read before the load started.
// KEYS[1] generation key, KEYS[2] list key
// ARGV[1] expected generation, ARGV[2] payload, ARGV[3] ttl in milliseconds
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then current = '0' end
if current ~= ARGV[1] then return 0 end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// ListCache stores serialized book lists per viewer. Every invalidation
// bumps the viewer's generation, and a fill is dropped when the generation
// moved while its list was loading.
type ListCache interface {
	Get(ctx context.Context, viewer, list string) ([]dto.Book, bool, error)
	Generation(ctx context.Context, viewer string) (int64, error)
	Set(ctx context.Context, viewer, list string, generation int64, books []dto.Book) (bool, error)
	Invalidate(ctx context.Context, viewer string) error
}

// Key builds the cache key of a list for a viewer. An empty viewer is the
// anonymous viewer.
func Key(viewer, list string) string {
	return fmt.Sprintf("library:%s:%s", viewerID(viewer), list)
}

// GenerationKey is the counter bumped on every invalidation of a viewer
func GenerationKey(viewer string) string {
	return fmt.Sprintf("library:%s:generation", viewerID(viewer))
}

// UserKeys returns every list key held for a viewer
func UserKeys(viewer string) []string {
	return []string{
		Key(viewer, ListUserBooks),
		Key(viewer, ListFavoriteBooks),
		Key(viewer, ListSuggestedBooks),
	}
}

func viewerID(viewer string) string {
	if viewer == "" {
		return anonymousViewer
	}
	return viewer
}

type redisListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisListCache creates a list cache backed by Redis
func NewRedisListCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) ListCache {
	return &redisListCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *redisListCache) Get(ctx context.Context, viewer, list string) ([]dto.Book, bool, error) {
	key := Key(viewer, list)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var books []dto.Book
	if err := json.Unmarshal(data, &books); err != nil {
		// A corrupt entry is treated as a miss and dropped
		c.logger.Warn("⚠️ [Cache] Dropping unreadable list entry", "key", key, "error", err)
		c.client.Del(ctx, key)
		return nil, false, nil
	}

	return books, true, nil
}

func (c *redisListCache) Generation(ctx context.Context, viewer string) (int64, error) {
	generation, err := c.client.Get(ctx, GenerationKey(viewer)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

func (c *redisListCache) Set(ctx context.Context, viewer, list string, generation int64, books []dto.Book) (bool, error) {
	if books == nil {
		books = []dto.Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return false, fmt.Errorf("failed to marshal list: %w", err)
	}

	key := Key(viewer, list)
	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{GenerationKey(viewer), key},
		generation, data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}

	if stored == 0 {
		c.logger.Debug("⏭️ [Cache] Skipped stale list fill", "key", key, "generation", generation)
		return false, nil
	}

	c.logger.Debug("💾 [Cache] Stored list", "key", key, "count", len(books))
	return true, nil
}

func (c *redisListCache) Invalidate(ctx context.Context, viewer string) error {
	genKey := GenerationKey(viewer)
	keys := UserKeys(viewer)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, generationTTL)
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	c.logger.Debug("🗑️ [Cache] Invalidated lists", "keys", keys)
	return nil
}

type noopListCache struct{}

// NewNoopListCache returns a cache that never hits. Used when Redis is unavailable.
func NewNoopListCache() ListCache {
	return noopListCache{}
}

func (noopListCache) Get(context.Context, string, string) ([]dto.Book, bool, error) {
	return nil, false, nil
}

func (noopListCache) Generation(context.Context, string) (int64, error) {
	return 0, nil
}

func (noopListCache) Set(context.Context, string, string, int64, []dto.Book) (bool, error) {
	return false, nil
}

func (noopListCache) Invalidate(context.Context, string) error {
	return nil
}
