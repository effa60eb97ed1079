package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/testutil"
)

func hashPassword(t *testing.T, password string) *string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(hash)
	return &s
}

func newAuthService(userRepo *testutil.MockUserRepository, accountRepo *testutil.MockAccountRepository, sessions database.SessionStore) service.AuthService {
	return service.NewAuthService(userRepo, accountRepo, sessions, testutil.TestConfig(), testutil.TestLogger())
}

// ==================== AUTH SERVICE UNIT TESTS ====================

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		setupMocks func(*testutil.MockUserRepository)
		wantErr    error
	}{
		{
			name:  "success",
			email: "  Reader@Example.com ",
			setupMocks: func(userRepo *testutil.MockUserRepository) {
				userRepo.On("FindByEmail", "reader@example.com").Return(nil, repository.ErrUserNotFound)
				userRepo.On("CreateWithAccount", mock.AnythingOfType("*models.User"), mock.AnythingOfType("*models.Account")).
					Run(func(args mock.Arguments) {
						user := args.Get(0).(*models.User)
						account := args.Get(1).(*models.Account)
						user.ID = "user-1"
						account.UserID = user.ID
					}).Return(nil)
			},
		},
		{
			name:  "email already exists",
			email: "taken@example.com",
			setupMocks: func(userRepo *testutil.MockUserRepository) {
				userRepo.On("FindByEmail", "taken@example.com").Return(&models.User{ID: "user-2"}, nil)
			},
			wantErr: service.ErrEmailAlreadyExists,
		},
		{
			name:  "email registered by a concurrent signup",
			email: "racer@example.com",
			setupMocks: func(userRepo *testutil.MockUserRepository) {
				userRepo.On("FindByEmail", "racer@example.com").Return(nil, repository.ErrUserNotFound)
				userRepo.On("CreateWithAccount", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)
			},
			wantErr: service.ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(testutil.MockUserRepository)
			accountRepo := new(testutil.MockAccountRepository)
			tt.setupMocks(userRepo)

			authService := newAuthService(userRepo, accountRepo, database.NewMemorySessionStore())
			user, err := authService.Signup(" Reader ", tt.email, "password123")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "user-1", user.ID)
				assert.Equal(t, "Reader", user.Name)
				assert.Equal(t, "reader@example.com", user.Email)
			}

			userRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_SignupHashesPassword(t *testing.T) {
	userRepo := new(testutil.MockUserRepository)
	accountRepo := new(testutil.MockAccountRepository)

	var stored *models.Account
	userRepo.On("FindByEmail", "reader@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("CreateWithAccount", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.Account)
	}).Return(nil)

	authService := newAuthService(userRepo, accountRepo, database.NewMemorySessionStore())
	_, err := authService.Signup("Reader", "reader@example.com", "password123")
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Equal(t, models.ProviderCredential, stored.ProviderID)
	require.NotNil(t, stored.Password)
	assert.NotEqual(t, "password123", *stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.Password), []byte("password123")))
}

func TestAuthService_Login(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "reader@example.com"}

	tests := []struct {
		name       string
		password   string
		setupMocks func(*testutil.MockUserRepository, *testutil.MockAccountRepository)
		wantErr    error
	}{
		{
			name:     "success",
			password: "password123",
			setupMocks: func(userRepo *testutil.MockUserRepository, accountRepo *testutil.MockAccountRepository) {
				userRepo.On("FindByEmail", "reader@example.com").Return(user, nil)
				accountRepo.On("FindCredentialByUserID", "user-1").Return(&models.Account{Password: hashPassword(t, "password123")}, nil)
			},
		},
		{
			name:     "user not found",
			password: "password123",
			setupMocks: func(userRepo *testutil.MockUserRepository, accountRepo *testutil.MockAccountRepository) {
				userRepo.On("FindByEmail", "reader@example.com").Return(nil, repository.ErrUserNotFound)
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:     "no credential account",
			password: "password123",
			setupMocks: func(userRepo *testutil.MockUserRepository, accountRepo *testutil.MockAccountRepository) {
				userRepo.On("FindByEmail", "reader@example.com").Return(user, nil)
				accountRepo.On("FindCredentialByUserID", "user-1").Return(nil, repository.ErrAccountNotFound)
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			password: "wrongpassword",
			setupMocks: func(userRepo *testutil.MockUserRepository, accountRepo *testutil.MockAccountRepository) {
				userRepo.On("FindByEmail", "reader@example.com").Return(user, nil)
				accountRepo.On("FindCredentialByUserID", "user-1").Return(&models.Account{Password: hashPassword(t, "password123")}, nil)
			},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(testutil.MockUserRepository)
			accountRepo := new(testutil.MockAccountRepository)
			tt.setupMocks(userRepo, accountRepo)

			authService := newAuthService(userRepo, accountRepo, database.NewMemorySessionStore())
			got, session, err := authService.Login(context.Background(), "reader@example.com", tt.password, true)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "user-1", got.ID)
				require.NotNil(t, session)
				assert.NotEmpty(t, session.Token)
				assert.True(t, session.Persistent)
				assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
			}

			userRepo.AssertExpectations(t)
			accountRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginThenResolveSession(t *testing.T) {
	userRepo := new(testutil.MockUserRepository)
	accountRepo := new(testutil.MockAccountRepository)
	user := &models.User{ID: "user-1", Email: "reader@example.com"}

	userRepo.On("FindByEmail", "reader@example.com").Return(user, nil)
	userRepo.On("FindByID", "user-1").Return(user, nil)
	accountRepo.On("FindCredentialByUserID", "user-1").Return(&models.Account{Password: hashPassword(t, "password123")}, nil)

	authService := newAuthService(userRepo, accountRepo, database.NewMemorySessionStore())
	ctx := context.Background()

	_, session, err := authService.Login(ctx, "reader@example.com", "password123", false)
	require.NoError(t, err)
	assert.False(t, session.Persistent)

	userID, err := authService.ResolveSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	current, err := authService.CurrentUser(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", current.Email)

	require.NoError(t, authService.Logout(ctx, session.Token))

	_, err = authService.ResolveSession(ctx, session.Token)
	assert.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestAuthService_ResolveSessionRejectsBadTokens(t *testing.T) {
	sessions := database.NewMemorySessionStore()
	authService := newAuthService(new(testutil.MockUserRepository), new(testutil.MockAccountRepository), sessions)
	ctx := context.Background()
	secret := []byte(testutil.TestConfig().SessionSecret)

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}

	require.NoError(t, sessions.CreateSession(ctx, "sid-1", "user-1", time.Hour))
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "user-1", "sid": "sid-1", "exp": future})},
		{name: "expired", token: sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "user-1", "sid": "sid-1", "exp": time.Now().Add(-time.Hour).Unix()})},
		{name: "unknown session", token: sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "user-1", "sid": "sid-2", "exp": future})},
		{name: "subject mismatch", token: sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "user-2", "sid": "sid-1", "exp": future})},
		{name: "missing session id", token: sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "user-1", "exp": future})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.ResolveSession(ctx, tt.token)
			assert.ErrorIs(t, err, service.ErrInvalidSession)
		})
	}
}

func TestAuthService_ResolveSessionStoreError(t *testing.T) {
	sessions := new(testutil.MockSessionStore)
	userRepo := new(testutil.MockUserRepository)
	accountRepo := new(testutil.MockAccountRepository)
	user := &models.User{ID: "user-1", Email: "reader@example.com"}
	storeErr := errors.New("redis down")

	userRepo.On("FindByEmail", "reader@example.com").Return(user, nil)
	accountRepo.On("FindCredentialByUserID", "user-1").Return(&models.Account{Password: hashPassword(t, "password123")}, nil)
	sessions.On("CreateSession", mock.Anything, mock.AnythingOfType("string"), "user-1", time.Hour).Return(nil)
	sessions.On("GetSessionUserID", mock.Anything, mock.AnythingOfType("string")).Return("", false, storeErr)

	authService := newAuthService(userRepo, accountRepo, sessions)
	ctx := context.Background()

	_, session, err := authService.Login(ctx, "reader@example.com", "password123", true)
	require.NoError(t, err)

	_, err = authService.ResolveSession(ctx, session.Token)
	assert.ErrorIs(t, err, storeErr)
	sessions.AssertExpectations(t)
}
