package library

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
)

// Messages shown when an optimistic change is rolled back
const (
	FavoriteFailedMessage = "Failed to update favorite status. Please try again."
	DeleteFailedMessage   = "Failed to delete book. Please try again."
)

// Actions are the server calls the library depends on
type Actions interface {
	ListBooks(ctx context.Context, list string) ([]dto.Book, error)
	UpdateFavorite(ctx context.Context, bookID string, isFavorite bool) (*dto.UpdateResult, error)
	DeleteBook(ctx context.Context, bookID string) (*dto.UpdateResult, error)
}

// Notifier surfaces user-facing messages
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Library is the client-side view of a user's lists. Mutations patch the
// cache before the server answers and roll back when the call fails.
type Library struct {
	actions  Actions
	cache    *Cache
	notifier Notifier
	logger   *slog.Logger
}

// New creates a library with an empty cache
func New(actions Actions, notifier Notifier, logger *slog.Logger) *Library {
	return &Library{
		actions:  actions,
		cache:    NewCache(),
		notifier: notifier,
		logger:   logger,
	}
}

// Cache exposes the underlying cache
func (l *Library) Cache() *Cache {
	return l.cache
}

// Load fetches a list from the server and caches it
func (l *Library) Load(ctx context.Context, list string) ([]dto.Book, error) {
	books, err := l.actions.ListBooks(ctx, list)
	if err != nil {
		l.logger.Error("❌ [Library] Failed to load list", "list", list, "error", err)
		return nil, err
	}
	l.cache.Set(list, books)
	return books, nil
}

// Books returns the cached list, empty if not loaded
func (l *Library) Books(list string) []dto.Book {
	books, _ := l.cache.Get(list)
	return books
}

// ToggleFavorite marks a book in list as favorite or not. It reports
// whether the server accepted the change.
func (l *Library) ToggleFavorite(ctx context.Context, list, bookID string, isFavorite bool) bool {
	snapshot := l.cache.Snapshot(list)

	l.cache.Update(list, bookID, func(book *dto.Book) {
		if book.UserProgress == nil {
			book.UserProgress = &dto.UserProgress{BookID: book.ID}
		}
		book.UserProgress.IsFavorite = isFavorite
	})

	result, err := l.actions.UpdateFavorite(ctx, bookID, isFavorite)
	if err = actionError(result, err); err != nil {
		l.logger.Warn("⚠️ [Library] Favorite update rolled back", "book_id", bookID, "error", err)
		l.cache.Restore(snapshot)
		l.notify(FavoriteFailedMessage)
		return false
	}

	if result.Data != nil {
		data := *result.Data
		l.cache.Update(list, bookID, func(book *dto.Book) {
			book.UserProgress = &data
		})
	}
	return true
}

// Delete removes a book from list. It reports whether the server accepted
// the change.
func (l *Library) Delete(ctx context.Context, list, bookID string) bool {
	snapshot := l.cache.Snapshot(list)
	l.cache.Remove(list, bookID)

	result, err := l.actions.DeleteBook(ctx, bookID)
	if err = actionError(result, err); err != nil {
		l.logger.Warn("⚠️ [Library] Delete rolled back", "book_id", bookID, "error", err)
		l.cache.Restore(snapshot)
		l.notify(DeleteFailedMessage)
		return false
	}
	return true
}

func (l *Library) notify(message string) {
	if l.notifier != nil {
		l.notifier.Notify(message)
	}
}

func actionError(result *dto.UpdateResult, err error) error {
	if err != nil {
		return err
	}
	if result == nil {
		return errors.New("empty action result")
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	return nil
}
