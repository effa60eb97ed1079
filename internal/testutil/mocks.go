package testutil

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/validation"
)

// ==================== MOCK USER REPOSITORY ====================

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateWithAccount(user *models.User, account *models.Account) error {
	args := m.Called(user, account)
	return args.Error(0)
}

func (m *MockUserRepository) FirstOrCreateByEmail(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ==================== MOCK ACCOUNT REPOSITORY ====================

// MockAccountRepository implements repository.AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindCredentialByUserID(userID string) (*models.Account, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Upsert(account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

// ==================== MOCK SESSION STORE ====================

// MockSessionStore implements database.SessionStore for testing
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, userID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) GetSessionUserID(ctx context.Context, sessionID string) (string, bool, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ==================== MOCK AUTH SERVICE ====================

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(name, email, password string) (*models.User, error) {
	args := m.Called(name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, rememberMe bool) (*models.User, *service.Session, error) {
	args := m.Called(ctx, email, password, rememberMe)
	var user *models.User
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	var session *service.Session
	if args.Get(1) != nil {
		session = args.Get(1).(*service.Session)
	}
	return user, session, args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) ResolveSession(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ==================== MOCK BOOK SERVICE ====================

// MockBookService implements service.BookService for testing
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) CreateBook(ctx context.Context, userID string, input service.CreateBookInput) (*models.Book, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) GetUserBooks(ctx context.Context, userID string) ([]dto.Book, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.Book), args.Error(1)
}

func (m *MockBookService) GetSuggestedBooks(ctx context.Context, userID string) ([]dto.Book, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.Book), args.Error(1)
}

func (m *MockBookService) GetFavoriteBooks(ctx context.Context, userID string) ([]dto.Book, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.Book), args.Error(1)
}

func (m *MockBookService) GetBook(ctx context.Context, userID, bookID string) (*dto.Book, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Book), args.Error(1)
}

func (m *MockBookService) UpdateFavorite(ctx context.Context, userID, bookID string, isFavorite bool) (*models.UserBook, error) {
	args := m.Called(ctx, userID, bookID, isFavorite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBook), args.Error(1)
}

func (m *MockBookService) DeleteBook(ctx context.Context, userID, bookID string) (*models.UserBook, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBook), args.Error(1)
}

func (m *MockBookService) AddToLibrary(ctx context.Context, userID, bookID string) (*models.UserBook, bool, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.UserBook), args.Bool(1), args.Error(2)
}

func (m *MockBookService) UpdateProgress(ctx context.Context, userID, bookID string, page int, status *models.ReadingStatus) (*models.UserBook, error) {
	args := m.Called(ctx, userID, bookID, page, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBook), args.Error(1)
}

// ==================== MOCK UPLOAD SERVICE ====================

// MockUploadService implements service.UploadService for testing
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Store(ctx context.Context, userID string, file *validation.File) (*dto.UploadResult, error) {
	args := m.Called(ctx, userID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadResult), args.Error(1)
}

// ==================== MOCK UPLOAD LIMITER ====================

// MockUploadLimiter implements middleware.UploadLimiter for testing
type MockUploadLimiter struct {
	mock.Mock
}

func (m *MockUploadLimiter) Allow(ctx context.Context, userID string) (bool, int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

func (m *MockUploadLimiter) Record(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUploadLimiter) Remaining(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// ==================== MOCK OBJECT STORE ====================

// MockObjectStore implements storage.ObjectStore for testing
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
