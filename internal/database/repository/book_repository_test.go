package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/repository"
)

// ==================== BOOK REPOSITORY TESTS ====================

func TestBookRepository_CreateWithOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewBookRepository(db)
	user := createTestUser(t, db, "owner@example.com")

	book := &models.Book{
		Title:        "Dune",
		Author:       "Frank Herbert",
		ThumbnailURL: "https://example.com/dune.jpg",
		PDFURL:       "https://example.com/dune.pdf",
		UploaderID:   &user.ID,
	}
	userBook := &models.UserBook{UserID: user.ID, Status: models.ReadingStatusNew, ProgressPage: 1}

	require.NoError(t, repo.CreateWithOwner(book, userBook))
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, book.ID, userBook.BookID)

	var stored models.UserBook
	require.NoError(t, db.Where("user_id = ? AND book_id = ?", user.ID, book.ID).First(&stored).Error)
	assert.Equal(t, models.ReadingStatusNew, stored.Status)
	assert.False(t, stored.IsFavorite)
	assert.Equal(t, 1, stored.ProgressPage)
}

func TestBookRepository_CreateWithOwnerRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewBookRepository(db)
	user := createTestUser(t, db, "owner@example.com")
	existing := createTestBook(t, db, "Existing", false)

	// Reusing a primary key makes the second insert fail
	require.NoError(t, db.Create(&models.UserBook{ID: "dup", UserID: user.ID, BookID: existing.ID}).Error)

	book := &models.Book{
		ID:           "book-copy",
		Title:        "Copy",
		Author:       "Someone",
		ThumbnailURL: "https://example.com/copy.jpg",
		PDFURL:       "https://example.com/copy.pdf",
	}
	userBook := &models.UserBook{ID: "dup", UserID: user.ID}

	err := repo.CreateWithOwner(book, userBook)
	assert.Error(t, err)

	_, err = repo.FindByID("book-copy")
	assert.ErrorIs(t, err, repository.ErrBookNotFound)
}

func TestBookRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewBookRepository(db)
	book := createTestBook(t, db, "1984", true)

	found, err := repo.FindByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "1984", found.Title)

	require.NoError(t, db.Delete(book).Error)
	_, err = repo.FindByID(book.ID)
	assert.ErrorIs(t, err, repository.ErrBookNotFound)
}

func TestBookRepository_ListSuggested(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewBookRepository(db)

	older := createTestBook(t, db, "Older", true)
	newer := createTestBook(t, db, "Newer", true)
	createTestBook(t, db, "Personal", false)
	removed := createTestBook(t, db, "Removed", true)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(older).Update("created_at", base).Error)
	require.NoError(t, db.Model(newer).Update("created_at", base.Add(time.Minute)).Error)
	require.NoError(t, db.Delete(removed).Error)

	books, err := repo.ListSuggested()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Newer", books[0].Title)
	assert.Equal(t, "Older", books[1].Title)
}

func TestBookRepository_UpsertIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewBookRepository(db)

	book := &models.Book{
		ID:           "book-the-hobbit",
		Title:        "The Hobbit",
		Author:       "J.R.R. Tolkien",
		ThumbnailURL: "https://example.com/old.jpg",
		PDFURL:       "https://example.com/hobbit.pdf",
		IsSuggested:  true,
	}
	require.NoError(t, repo.Upsert(book))

	updated := *book
	updated.ThumbnailURL = "https://example.com/new.jpg"
	require.NoError(t, repo.Upsert(&updated))

	var count int64
	require.NoError(t, db.Model(&models.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByID("book-the-hobbit")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/new.jpg", found.ThumbnailURL)
}
