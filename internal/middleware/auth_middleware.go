package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/service"
)

// AuthMiddleware resolves the session carried by a request
type AuthMiddleware struct {
	service    service.AuthService
	cookieName string
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, cookieName string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service:    service,
		cookieName: cookieName,
		logger:     logger,
	}
}

// SessionToken extracts the session token from the cookie, falling back to
// an "Authorization: Bearer" header
func SessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// resolve sets userID in the context when the request carries a live session
func (m *AuthMiddleware) resolve(c *gin.Context) bool {
	token := SessionToken(c, m.cookieName)
	if token == "" {
		return false
	}

	userID, err := m.service.ResolveSession(c.Request.Context(), token)
	if err != nil {
		m.logger.Debug("⚠️ [Middleware] Session rejected", "error", err)
		return false
	}

	c.Set("userID", userID)
	m.logger.Debug("✅ [Middleware] Session resolved", "user_id", userID)
	return true
}

// RequireAuth aborts with 401 unless the request carries a live session
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.resolve(c) {
			m.logger.Warn("⚠️ [Middleware] Unauthenticated request", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the session when present and never aborts.
// Handlers decide how to treat anonymous requests.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.resolve(c)
		c.Next()
	}
}
