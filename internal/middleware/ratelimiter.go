package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// UploadLimiter caps how many files a user may upload per UTC day
type UploadLimiter interface {
	// Allow reports whether the user may upload another file today.
	// Returns: allowed bool, used int64, limit int64, error
	Allow(ctx context.Context, userID string) (bool, int64, int64, error)

	// Record counts one successful upload for the user
	Record(ctx context.Context, userID string) error

	// Remaining returns uploads left today, -1 when unlimited
	Remaining(ctx context.Context, userID string) (int64, error)
}

type redisUploadLimiter struct {
	client *redis.Client
	limit  int64
	logger *slog.Logger
	now    func() time.Time
}

// NewUploadLimiter creates a Redis-based daily upload limiter on a shared client.
// A limit of 0 or less means unlimited.
func NewUploadLimiter(client *redis.Client, limit int64, logger *slog.Logger) UploadLimiter {
	return &redisUploadLimiter{
		client: client,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

// dailyKey generates the Redis key for a user's upload count
// Format: rate:uploads:{userID}:{YYYY-MM-DD}
func (r *redisUploadLimiter) dailyKey(userID string) string {
	today := r.now().UTC().Format("2006-01-02")
	return fmt.Sprintf("rate:uploads:%s:%s", userID, today)
}

func (r *redisUploadLimiter) used(ctx context.Context, userID string) (int64, error) {
	count, err := r.client.Get(ctx, r.dailyKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}

func (r *redisUploadLimiter) Allow(ctx context.Context, userID string) (bool, int64, int64, error) {
	if r.limit <= 0 {
		return true, 0, 0, nil
	}

	count, err := r.used(ctx, userID)
	if err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to get upload count", "error", err, "user_id", userID)
		// On error, allow the request but log it
		return true, 0, r.limit, err
	}

	return count < r.limit, count, r.limit, nil
}

func (r *redisUploadLimiter) Record(ctx context.Context, userID string) error {
	key := r.dailyKey(userID)

	// Expire at the next UTC midnight
	now := r.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)

	pipe := r.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, midnight.Sub(now))

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to record upload", "error", err, "user_id", userID)
		return err
	}

	return nil
}

func (r *redisUploadLimiter) Remaining(ctx context.Context, userID string) (int64, error) {
	if r.limit <= 0 {
		return -1, nil
	}

	count, err := r.used(ctx, userID)
	if err != nil {
		return 0, err
	}

	return max(r.limit-count, 0), nil
}

// NoOpUploadLimiter always allows uploads.
// Used when Redis is not available.
type NoOpUploadLimiter struct{}

// NewNoOpUploadLimiter creates a no-op upload limiter
func NewNoOpUploadLimiter(logger *slog.Logger) UploadLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op upload limiter - upload limits are disabled")
	return &NoOpUploadLimiter{}
}

func (*NoOpUploadLimiter) Allow(ctx context.Context, userID string) (bool, int64, int64, error) {
	return true, 0, 0, nil
}

func (*NoOpUploadLimiter) Record(ctx context.Context, userID string) error {
	return nil
}

func (*NoOpUploadLimiter) Remaining(ctx context.Context, userID string) (int64, error) {
	return -1, nil
}

// UploadLimit rejects uploads once the daily quota is used up. Successful
// uploads are recorded by the upload handler. Must run after RequireAuth.
func UploadLimit(limiter UploadLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")

		allowed, used, limit, err := limiter.Allow(c.Request.Context(), userID)
		if err == nil && !allowed {
			logger.Warn("🚫 [RateLimiter] Daily upload limit reached",
				"user_id", userID,
				"used", used,
				"limit", limit,
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Daily upload limit reached. Please try again tomorrow.",
			})
			return
		}

		c.Next()
	}
}
