package database

import (
	"context"
	"time"
)

// SessionStore defines the interface for storing server-side sessions
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	GetSessionUserID(ctx context.Context, sessionID string) (string, bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Close() error
}
