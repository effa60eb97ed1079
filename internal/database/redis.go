package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/config"
)

// RedisClient wraps the redis client with helper methods for sessions
type RedisClient struct {
	client *redis.Client
	logger *slog.Logger
	cfg    *config.Config
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config, logger *slog.Logger) (*RedisClient, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDatabase,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDatabase),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return &RedisClient{
		client: client,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// NewRedisClientForTesting creates a Redis client with a provided redis.Client (for testing)
func NewRedisClientForTesting(client *redis.Client, cfg *config.Config, logger *slog.Logger) *RedisClient {
	return &RedisClient{
		client: client,
		logger: logger,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// sessionKey generates a Redis key for a session
func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// CreateSession stores the session -> user mapping with a TTL
func (r *RedisClient) CreateSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKey(sessionID), userID, ttl).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to store session",
			"session_id", sessionID,
			"error", err,
		)
		return err
	}

	r.logger.Debug("💾 [Redis] Stored session",
		"session_id", sessionID,
		"user_id", userID,
		"ttl", ttl,
	)

	return nil
}

// GetSessionUserID resolves a session to its user.
// The boolean is false when the session does not exist or has expired.
func (r *RedisClient) GetSessionUserID(ctx context.Context, sessionID string) (string, bool, error) {
	userID, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		r.logger.Error("❌ [Redis] Failed to get session",
			"session_id", sessionID,
			"error", err,
		)
		return "", false, err
	}

	return userID, true, nil
}

// DeleteSession removes a session from Redis
func (r *RedisClient) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to delete session",
			"session_id", sessionID,
			"error", err,
		)
		return err
	}

	r.logger.Debug("🗑️ [Redis] Deleted session",
		"session_id", sessionID,
	)

	return nil
}

// GetClient returns the underlying Redis client (shared with the cache and rate limiter)
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}
