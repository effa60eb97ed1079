package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/config"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/validation"
)

const (
	msgAuthValidation = "Validation failed. Please check the form for errors."
	msgUnexpected     = "An unexpected error occurred. Please try again later."
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service   service.AuthService
	validator *validation.Validator
	cfg       *config.Config
	logger    *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service service.AuthService, validator *validation.Validator, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Signup handles account creation. It does not sign the user in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid signup request", "error", err)
		c.JSON(http.StatusBadRequest, dto.AuthState{Success: false, Message: msgAuthValidation})
		return
	}
	req.Normalize()

	if errs := h.validator.Struct(req); errs != nil {
		c.JSON(http.StatusBadRequest, dto.AuthState{Success: false, Message: msgAuthValidation, Errors: errs})
		return
	}

	if _, err := h.service.Signup(req.Username, req.Email, req.Password); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthState{
		Success: true,
		Message: "Account created successfully! You can now sign in.",
	})
}

// Login verifies credentials and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid login request", "error", err)
		c.JSON(http.StatusBadRequest, dto.AuthState{Success: false, Message: msgAuthValidation})
		return
	}

	if errs := h.validator.Struct(req); errs != nil {
		c.JSON(http.StatusBadRequest, dto.AuthState{Success: false, Message: msgAuthValidation, Errors: errs})
		return
	}

	_, session, err := h.service.Login(c.Request.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Without rememberMe the cookie lives for the browser session only
	maxAge := 0
	if session.Persistent {
		maxAge = int(time.Until(session.ExpiresAt).Seconds())
	}
	h.setSessionCookie(c, session.Token, maxAge)

	c.JSON(http.StatusOK, dto.AuthState{Success: true, Message: "Logged in successfully!"})
}

// Logout ends the current session and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, h.cfg.SessionCookieName)
	if token != "" {
		if err := h.service.Logout(c.Request.Context(), token); err != nil && !errors.Is(err, service.ErrInvalidSession) {
			h.logger.Error("❌ [Handler] Failed to end session", "error", err)
			c.JSON(http.StatusInternalServerError, dto.AuthState{Success: false, Message: msgUnexpected})
			return
		}
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, dto.AuthState{Success: true, Message: "Logged out successfully."})
}

// Session returns the signed-in user
func (h *AuthHandler) Session(c *gin.Context) {
	token := middleware.SessionToken(c, h.cfg.SessionCookieName)
	user, err := h.service.CurrentUser(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidSession) {
			h.logger.Error("❌ [Handler] Failed to load session", "error", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, value, maxAge, "/", "", h.cfg.SessionCookieSecure, true)
}

// handleServiceError maps service errors to HTTP responses
func (h *AuthHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, dto.AuthState{Success: false, Message: "User already exists. Use another email."})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.AuthState{Success: false, Message: "Invalid email or password."})
	default:
		h.logger.Error("❌ [Handler] Auth request failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.AuthState{Success: false, Message: msgUnexpected})
	}
}
