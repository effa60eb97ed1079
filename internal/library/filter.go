package library

import (
	"strings"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
)

// Filters selects books by effective reading status. Active filters are
// OR-combined; with none active every book passes.
type Filters struct {
	Reading  bool `json:"reading"`
	OnShelf  bool `json:"onShelf"`
	Finished bool `json:"finished"`
}

// DefaultFilters shows every book
func DefaultFilters() Filters {
	return Filters{Reading: true, OnShelf: true, Finished: true}
}

func (f Filters) anyActive() bool {
	return f.Reading || f.OnShelf || f.Finished
}

// EffectiveStatus returns the viewer's status for a book. Books without
// progress are on the shelf.
func EffectiveStatus(book dto.Book) models.ReadingStatus {
	if book.UserProgress == nil || book.UserProgress.Status == "" {
		return models.ReadingStatusNew
	}
	return book.UserProgress.Status
}

// Matches reports whether a book passes the search term and status filters
func Matches(book dto.Book, searchTerm string, filters Filters) bool {
	if searchTerm != "" {
		term := strings.ToLower(searchTerm)
		if !strings.Contains(strings.ToLower(book.Title), term) &&
			!strings.Contains(strings.ToLower(book.Author), term) {
			return false
		}
	}

	if !filters.anyActive() {
		return true
	}

	switch EffectiveStatus(book) {
	case models.ReadingStatusReading:
		return filters.Reading
	case models.ReadingStatusFinished:
		return filters.Finished
	default:
		return filters.OnShelf
	}
}

// Filter returns the books that match, preserving order
func Filter(books []dto.Book, searchTerm string, filters Filters) []dto.Book {
	result := make([]dto.Book, 0, len(books))
	for _, book := range books {
		if Matches(book, searchTerm, filters) {
			result = append(result, book)
		}
	}
	return result
}
