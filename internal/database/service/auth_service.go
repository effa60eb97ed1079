package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/config"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/repository"
)

// AuthService defines the interface for email/password authentication
// and session management
type AuthService interface {
	Signup(name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (*models.User, *Session, error)
	Logout(ctx context.Context, token string) error
	ResolveSession(ctx context.Context, token string) (string, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Session is an issued session token
type Session struct {
	Token     string
	ExpiresAt time.Time
	// Persistent sessions survive a browser restart
	Persistent bool
}

// sessionClaims are carried by the signed session token
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	sessions    database.SessionStore
	secret      []byte
	ttl         time.Duration
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	sessions database.SessionStore,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		sessions:    sessions,
		secret:      []byte(cfg.SessionSecret),
		ttl:         time.Duration(cfg.SessionTTL) * time.Second,
		logger:      logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	s.logger.Info("📝 [AuthService] Signup attempt", "email", email)

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}
	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, err
	}
	hash := string(hashedPassword)

	user := &models.User{
		Name:  strings.TrimSpace(name),
		Email: email,
	}
	account := &models.Account{
		ProviderID: models.ProviderCredential,
		Password:   &hash,
	}

	if err := s.userRepo.CreateWithAccount(user, account); err != nil {
		// Lost a race with a concurrent signup for the same email
		if errors.Is(err, repository.ErrEmailTaken) {
			s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
			return nil, ErrEmailAlreadyExists
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User signed up successfully", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string, rememberMe bool) (*models.User, *Session, error) {
	email = normalizeEmail(email)
	s.logger.Info("🔐 [AuthService] Login attempt", "email", email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] User not found", "email", email)
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, nil, err
	}

	account, err := s.accountRepo.FindCredentialByUserID(user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			s.logger.Warn("⚠️ [AuthService] No credential account", "user_id", user.ID)
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, nil, err
	}

	if account.Password == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.Password), []byte(password)); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.issueSession(ctx, user.ID, rememberMe)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to issue session", "error", err)
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, session, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	s.logger.Info("👋 [AuthService] Logout attempt")

	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}

	if err := s.sessions.DeleteSession(ctx, claims.SessionID); err != nil {
		s.logger.Error("❌ [AuthService] Failed to delete session", "error", err)
		return err
	}

	s.logger.Info("✅ [AuthService] User logged out successfully", "user_id", claims.Subject)
	return nil
}

// ResolveSession returns the user ID that owns a live session token
func (s *authService) ResolveSession(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	userID, ok, err := s.sessions.GetSessionUserID(ctx, claims.SessionID)
	if err != nil {
		return "", err
	}
	if !ok || userID != claims.Subject {
		return "", ErrInvalidSession
	}

	return userID, nil
}

func (s *authService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issueSession(ctx context.Context, userID string, rememberMe bool) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	sessionID := uuid.NewString()

	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.CreateSession(ctx, sessionID, userID, s.ttl); err != nil {
		return nil, err
	}

	return &Session{
		Token:      token,
		ExpiresAt:  expiresAt,
		Persistent: rememberMe,
	}, nil
}

func (s *authService) parseToken(tokenString string) (*sessionClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.SessionID == "" || claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// Service errors
var (
	ErrEmailAlreadyExists = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUnauthorized       = errors.New("unauthorized")
)
