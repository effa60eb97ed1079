package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
)

// UserBookRepository defines the interface for per-user library entries.
// Unless a method says otherwise, soft-deleted entries are invisible.
type UserBookRepository interface {
	Create(userBook *models.UserBook) error
	FindActive(userID, bookID string) (*models.UserBook, error)
	FindAny(userID, bookID string) (*models.UserBook, error)
	ListLibrary(userID string) ([]models.UserBook, error)
	ListFavorites(userID string) ([]models.UserBook, error)
	ListForBooks(userID string, bookIDs []string) ([]models.UserBook, error)
	SetFavorite(userID, bookID string, isFavorite bool) (*models.UserBook, error)
	SoftDelete(userID, bookID string) (*models.UserBook, error)
	Restore(userID, bookID string) (*models.UserBook, error)
	UpdateProgress(userID, bookID string, page int, status models.ReadingStatus) (*models.UserBook, error)
	Upsert(userBook *models.UserBook) error
}

type userBookRepository struct {
	db *gorm.DB
}

// NewUserBookRepository creates a new user book repository instance
func NewUserBookRepository(db *gorm.DB) UserBookRepository {
	return &userBookRepository{db: db}
}

func (r *userBookRepository) Create(userBook *models.UserBook) error {
	return r.db.Create(userBook).Error
}

// FindActive returns the non-deleted entry with its book preloaded
func (r *userBookRepository) FindActive(userID, bookID string) (*models.UserBook, error) {
	return r.find(r.db, userID, bookID)
}

// FindAny returns the entry even if it has been soft-deleted
func (r *userBookRepository) FindAny(userID, bookID string) (*models.UserBook, error) {
	return r.find(r.db.Unscoped(), userID, bookID)
}

func (r *userBookRepository) find(db *gorm.DB, userID, bookID string) (*models.UserBook, error) {
	var userBook models.UserBook
	err := db.Preload("Book").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&userBook).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserBookNotFound
		}
		return nil, err
	}
	return &userBook, nil
}

// ListLibrary returns the user's non-suggested books, most recently touched first
func (r *userBookRepository) ListLibrary(userID string) ([]models.UserBook, error) {
	var rows []models.UserBook
	err := r.db.
		Joins("JOIN books ON books.id = user_books.book_id").
		Where("user_books.user_id = ?", userID).
		Where("books.is_suggested = ? AND books.deleted_at IS NULL", false).
		Preload("Book").
		Order("user_books.updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// ListFavorites returns the user's favorite entries, suggested books included
func (r *userBookRepository) ListFavorites(userID string) ([]models.UserBook, error) {
	var rows []models.UserBook
	err := r.db.
		Joins("JOIN books ON books.id = user_books.book_id").
		Where("user_books.user_id = ? AND user_books.is_favorite = ?", userID, true).
		Where("books.deleted_at IS NULL").
		Preload("Book").
		Order("user_books.updated_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *userBookRepository) ListForBooks(userID string, bookIDs []string) ([]models.UserBook, error) {
	var rows []models.UserBook
	if len(bookIDs) == 0 {
		return rows, nil
	}
	err := r.db.Where("user_id = ? AND book_id IN ?", userID, bookIDs).Find(&rows).Error
	return rows, err
}

func (r *userBookRepository) SetFavorite(userID, bookID string, isFavorite bool) (*models.UserBook, error) {
	result := r.db.Model(&models.UserBook{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Updates(map[string]interface{}{
			"is_favorite": isFavorite,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserBookNotFound
	}
	return r.FindActive(userID, bookID)
}

// SoftDelete stamps deleted_at on the active entry and returns the deleted row
func (r *userBookRepository) SoftDelete(userID, bookID string) (*models.UserBook, error) {
	now := time.Now()
	result := r.db.Model(&models.UserBook{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserBookNotFound
	}
	return r.FindAny(userID, bookID)
}

// Restore revives a soft-deleted entry with fresh reading state
func (r *userBookRepository) Restore(userID, bookID string) (*models.UserBook, error) {
	result := r.db.Unscoped().Model(&models.UserBook{}).
		Where("user_id = ? AND book_id = ? AND deleted_at IS NOT NULL", userID, bookID).
		Updates(map[string]interface{}{
			"deleted_at":    nil,
			"status":        models.ReadingStatusNew,
			"is_favorite":   false,
			"progress_page": 1,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserBookNotFound
	}
	return r.FindActive(userID, bookID)
}

func (r *userBookRepository) UpdateProgress(userID, bookID string, page int, status models.ReadingStatus) (*models.UserBook, error) {
	result := r.db.Model(&models.UserBook{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Updates(map[string]interface{}{
			"progress_page": page,
			"status":        status,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserBookNotFound
	}
	return r.FindActive(userID, bookID)
}

// Upsert creates the entry or overwrites its reading state on (user_id, book_id)
func (r *userBookRepository) Upsert(userBook *models.UserBook) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "is_favorite", "progress_page", "updated_at"}),
	}).Create(userBook).Error
}

// Repository errors for library entries
var (
	ErrUserBookNotFound = errors.New("book not in library")
)
