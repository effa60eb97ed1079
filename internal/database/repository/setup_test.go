package repository_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/testutil"
)

func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.NewTestDB(t)
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{Email: email, Name: "Test User"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, db *gorm.DB, title string, suggested bool) *models.Book {
	book := &models.Book{
		Title:        title,
		Author:       "Test Author",
		ThumbnailURL: "https://example.com/cover.jpg",
		PDFURL:       "https://example.com/book.pdf",
		IsSuggested:  suggested,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}
