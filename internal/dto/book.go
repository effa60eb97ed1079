package dto

import (
	"time"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
)

// TimeLayout is the ISO-8601 form used for every date that leaves the server
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Book is the serializable form of a catalog book, optionally annotated
// with the viewer's progress
type Book struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	ThumbnailURL string        `json:"thumbnailUrl"`
	PDFURL       string        `json:"pdfUrl"`
	TotalPages   int           `json:"totalPages"`
	IsSuggested  bool          `json:"isSuggested"`
	UploaderID   *string       `json:"uploaderId"`
	CreatedAt    string        `json:"createdAt"`
	UpdatedAt    string        `json:"updatedAt"`
	DeletedAt    *string       `json:"deletedAt"`
	UserProgress *UserProgress `json:"userProgress,omitempty"`
}

// UserProgress is the serializable form of a UserBook row
type UserProgress struct {
	ID           string               `json:"id"`
	UserID       string               `json:"userId"`
	BookID       string               `json:"bookId"`
	Status       models.ReadingStatus `json:"status"`
	IsFavorite   bool                 `json:"isFavorite"`
	ProgressPage int                  `json:"progressPage"`
	CreatedAt    string               `json:"createdAt"`
	UpdatedAt    string               `json:"updatedAt"`
	DeletedAt    *string              `json:"deletedAt"`
}

// FormatTime renders t in UTC with millisecond precision
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func formatDeletedAt(valid bool, t time.Time) *string {
	if !valid {
		return nil
	}
	s := FormatTime(t)
	return &s
}

// FromBook converts a Book row and the viewer's UserBook (may be nil)
func FromBook(book models.Book, progress *models.UserBook) Book {
	record := Book{
		ID:           book.ID,
		Title:        book.Title,
		Author:       book.Author,
		ThumbnailURL: book.ThumbnailURL,
		PDFURL:       book.PDFURL,
		TotalPages:   book.TotalPages,
		IsSuggested:  book.IsSuggested,
		UploaderID:   book.UploaderID,
		CreatedAt:    FormatTime(book.CreatedAt),
		UpdatedAt:    FormatTime(book.UpdatedAt),
		DeletedAt:    formatDeletedAt(book.DeletedAt.Valid, book.DeletedAt.Time),
	}
	if progress != nil {
		p := FromUserBook(*progress)
		record.UserProgress = &p
	}
	return record
}

// FromUserBook converts a UserBook row
func FromUserBook(ub models.UserBook) UserProgress {
	return UserProgress{
		ID:           ub.ID,
		UserID:       ub.UserID,
		BookID:       ub.BookID,
		Status:       ub.Status,
		IsFavorite:   ub.IsFavorite,
		ProgressPage: ub.ProgressPage,
		CreatedAt:    FormatTime(ub.CreatedAt),
		UpdatedAt:    FormatTime(ub.UpdatedAt),
		DeletedAt:    formatDeletedAt(ub.DeletedAt.Valid, ub.DeletedAt.Time),
	}
}

// FromUserBooks converts UserBook rows with their preloaded books
func FromUserBooks(rows []models.UserBook) []Book {
	records := make([]Book, 0, len(rows))
	for i := range rows {
		records = append(records, FromBook(rows[i].Book, &rows[i]))
	}
	return records
}
