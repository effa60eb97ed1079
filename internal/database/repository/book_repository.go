package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
)

// BookRepository defines the interface for catalog book operations
type BookRepository interface {
	CreateWithOwner(book *models.Book, userBook *models.UserBook) error
	FindByID(id string) (*models.Book, error)
	ListSuggested() ([]models.Book, error)
	Upsert(book *models.Book) error
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository instance
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// CreateWithOwner inserts the book and the owner's UserBook in one transaction,
// so a failure never leaves a book without its owning library entry
func (r *bookRepository) CreateWithOwner(book *models.Book, userBook *models.UserBook) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return err
		}
		userBook.BookID = book.ID
		return tx.Create(userBook).Error
	})
}

func (r *bookRepository) FindByID(id string) (*models.Book, error) {
	var book models.Book
	err := r.db.First(&book, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) ListSuggested() ([]models.Book, error) {
	var books []models.Book
	err := r.db.Where("is_suggested = ?", true).
		Order("created_at DESC").
		Find(&books).Error
	return books, err
}

// Upsert creates the book or overwrites its catalog fields when the ID exists
func (r *bookRepository) Upsert(book *models.Book) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "author", "thumbnail_url", "pdf_url", "is_suggested", "updated_at",
		}),
	}).Create(book).Error
}

// Repository errors for books
var (
	ErrBookNotFound = errors.New("book not found")
)
