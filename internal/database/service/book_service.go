package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/cache"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
)

const revalidateTimeout = 5 * time.Second

// BookService defines the interface for library business logic
type BookService interface {
	CreateBook(ctx context.Context, userID string, input CreateBookInput) (*models.Book, error)
	GetUserBooks(ctx context.Context, userID string) ([]dto.Book, error)
	GetSuggestedBooks(ctx context.Context, userID string) ([]dto.Book, error)
	GetFavoriteBooks(ctx context.Context, userID string) ([]dto.Book, error)
	GetBook(ctx context.Context, userID, bookID string) (*dto.Book, error)
	UpdateFavorite(ctx context.Context, userID, bookID string, isFavorite bool) (*models.UserBook, error)
	DeleteBook(ctx context.Context, userID, bookID string) (*models.UserBook, error)
	AddToLibrary(ctx context.Context, userID, bookID string) (*models.UserBook, bool, error)
	UpdateProgress(ctx context.Context, userID, bookID string, page int, status *models.ReadingStatus) (*models.UserBook, error)
}

// CreateBookInput holds the validated fields of a new personal book
type CreateBookInput struct {
	Title        string
	Author       string
	PDFURL       string
	ThumbnailURL string
	TotalPages   int
}

// TaskRunner runs background work. Satisfied by *worker.Pool.
type TaskRunner interface {
	SubmitWithTimeout(name string, timeout time.Duration, task func(ctx context.Context)) bool
}

type bookService struct {
	bookRepo     repository.BookRepository
	userBookRepo repository.UserBookRepository
	cache        cache.ListCache
	tasks        TaskRunner
	group        singleflight.Group
	logger       *slog.Logger
}

// NewBookService creates a new book service instance.
// A nil tasks runner makes cache revalidation synchronous.
func NewBookService(
	bookRepo repository.BookRepository,
	userBookRepo repository.UserBookRepository,
	listCache cache.ListCache,
	tasks TaskRunner,
	logger *slog.Logger,
) BookService {
	if listCache == nil {
		listCache = cache.NewNoopListCache()
	}
	return &bookService{
		bookRepo:     bookRepo,
		userBookRepo: userBookRepo,
		cache:        listCache,
		tasks:        tasks,
		logger:       logger,
	}
}

func (s *bookService) CreateBook(ctx context.Context, userID string, input CreateBookInput) (*models.Book, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	s.logger.Info("📚 [BookService] Creating book", "user_id", userID, "title", input.Title)

	uploader := userID
	book := &models.Book{
		Title:        strings.TrimSpace(input.Title),
		Author:       strings.TrimSpace(input.Author),
		PDFURL:       input.PDFURL,
		ThumbnailURL: input.ThumbnailURL,
		TotalPages:   input.TotalPages,
		IsSuggested:  false,
		UploaderID:   &uploader,
	}
	userBook := &models.UserBook{
		UserID:       userID,
		Status:       models.ReadingStatusNew,
		IsFavorite:   false,
		ProgressPage: 1,
	}

	if err := s.bookRepo.CreateWithOwner(book, userBook); err != nil {
		s.logger.Error("❌ [BookService] Failed to create book", "user_id", userID, "error", err)
		return nil, err
	}

	s.revalidate(ctx, userID)

	s.logger.Info("✅ [BookService] Book created", "book_id", book.ID, "user_id", userID)
	return book, nil
}

func (s *bookService) GetUserBooks(ctx context.Context, userID string) ([]dto.Book, error) {
	if userID == "" {
		return []dto.Book{}, nil
	}

	return s.cachedList(ctx, userID, cache.ListUserBooks, func() ([]dto.Book, error) {
		rows, err := s.userBookRepo.ListLibrary(userID)
		if err != nil {
			return nil, err
		}
		return dto.FromUserBooks(rows), nil
	})
}

func (s *bookService) GetFavoriteBooks(ctx context.Context, userID string) ([]dto.Book, error) {
	if userID == "" {
		return []dto.Book{}, nil
	}

	return s.cachedList(ctx, userID, cache.ListFavoriteBooks, func() ([]dto.Book, error) {
		rows, err := s.userBookRepo.ListFavorites(userID)
		if err != nil {
			return nil, err
		}
		return dto.FromUserBooks(rows), nil
	})
}

// GetSuggestedBooks lists suggested books, annotated with the viewer's
// progress when userID is set
func (s *bookService) GetSuggestedBooks(ctx context.Context, userID string) ([]dto.Book, error) {
	return s.cachedList(ctx, userID, cache.ListSuggestedBooks, func() ([]dto.Book, error) {
		books, err := s.bookRepo.ListSuggested()
		if err != nil {
			return nil, err
		}

		progress := map[string]*models.UserBook{}
		if userID != "" && len(books) > 0 {
			ids := make([]string, len(books))
			for i := range books {
				ids[i] = books[i].ID
			}
			rows, err := s.userBookRepo.ListForBooks(userID, ids)
			if err != nil {
				return nil, err
			}
			for i := range rows {
				progress[rows[i].BookID] = &rows[i]
			}
		}

		records := make([]dto.Book, 0, len(books))
		for _, book := range books {
			records = append(records, dto.FromBook(book, progress[book.ID]))
		}
		return records, nil
	})
}

// GetBook returns a book visible to the viewer: suggested books are visible
// to everyone, personal books only through a live library entry
func (s *bookService) GetBook(ctx context.Context, userID, bookID string) (*dto.Book, error) {
	book, err := s.bookRepo.FindByID(bookID)
	if err != nil {
		return nil, err
	}

	var progress *models.UserBook
	if userID != "" {
		progress, err = s.userBookRepo.FindActive(userID, bookID)
		if err != nil && !errors.Is(err, repository.ErrUserBookNotFound) {
			return nil, err
		}
	}

	if !book.IsSuggested && progress == nil {
		return nil, repository.ErrBookNotFound
	}

	record := dto.FromBook(*book, progress)
	return &record, nil
}

func (s *bookService) UpdateFavorite(ctx context.Context, userID, bookID string, isFavorite bool) (*models.UserBook, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	userBook, err := s.userBookRepo.SetFavorite(userID, bookID, isFavorite)
	if err != nil {
		if !errors.Is(err, repository.ErrUserBookNotFound) {
			s.logger.Error("❌ [BookService] Failed to update favorite", "book_id", bookID, "error", err)
		}
		return nil, err
	}

	s.revalidate(ctx, userID)

	s.logger.Info("⭐ [BookService] Favorite updated", "book_id", bookID, "user_id", userID, "is_favorite", isFavorite)
	return userBook, nil
}

// DeleteBook removes the book from the user's library. The catalog book is kept.
func (s *bookService) DeleteBook(ctx context.Context, userID, bookID string) (*models.UserBook, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	userBook, err := s.userBookRepo.SoftDelete(userID, bookID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserBookNotFound) {
			s.logger.Error("❌ [BookService] Failed to delete book", "book_id", bookID, "error", err)
		}
		return nil, err
	}

	s.revalidate(ctx, userID)

	s.logger.Info("🗑️ [BookService] Book removed from library", "book_id", bookID, "user_id", userID)
	return userBook, nil
}

// AddToLibrary links a suggested book, or the user's own removed upload,
// into the library. The boolean is false when the entry already existed.
func (s *bookService) AddToLibrary(ctx context.Context, userID, bookID string) (*models.UserBook, bool, error) {
	if userID == "" {
		return nil, false, ErrUnauthorized
	}

	book, err := s.bookRepo.FindByID(bookID)
	if err != nil {
		return nil, false, err
	}
	ownUpload := book.UploaderID != nil && *book.UploaderID == userID
	if !book.IsSuggested && !ownUpload {
		return nil, false, repository.ErrBookNotFound
	}

	existing, err := s.userBookRepo.FindActive(userID, bookID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserBookNotFound) {
		return nil, false, err
	}

	userBook, err := s.userBookRepo.Restore(userID, bookID)
	if errors.Is(err, repository.ErrUserBookNotFound) {
		userBook = &models.UserBook{
			UserID:       userID,
			BookID:       bookID,
			Status:       models.ReadingStatusNew,
			ProgressPage: 1,
		}
		if err = s.userBookRepo.Create(userBook); err == nil {
			userBook.Book = *book
		}
	}
	if err != nil {
		s.logger.Error("❌ [BookService] Failed to add book to library", "book_id", bookID, "error", err)
		return nil, false, err
	}

	s.revalidate(ctx, userID)

	s.logger.Info("➕ [BookService] Book added to library", "book_id", bookID, "user_id", userID)
	return userBook, true, nil
}

// UpdateProgress moves the reading position. Without an explicit status a
// NEW book past page 1 becomes READING and the last page marks it FINISHED.
func (s *bookService) UpdateProgress(ctx context.Context, userID, bookID string, page int, status *models.ReadingStatus) (*models.UserBook, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	current, err := s.userBookRepo.FindActive(userID, bookID)
	if err != nil {
		return nil, err
	}

	totalPages := current.Book.TotalPages
	if page < 1 || (totalPages > 0 && page > totalPages) {
		return nil, ErrInvalidProgress
	}

	next := current.Status
	switch {
	case status != nil:
		if !status.IsValid() {
			return nil, ErrInvalidProgress
		}
		next = *status
	case totalPages > 0 && page == totalPages:
		next = models.ReadingStatusFinished
	case next == models.ReadingStatusNew && page > 1:
		next = models.ReadingStatusReading
	}

	userBook, err := s.userBookRepo.UpdateProgress(userID, bookID, page, next)
	if err != nil {
		if !errors.Is(err, repository.ErrUserBookNotFound) {
			s.logger.Error("❌ [BookService] Failed to update progress", "book_id", bookID, "error", err)
		}
		return nil, err
	}

	s.revalidate(ctx, userID)
	return userBook, nil
}

// cachedList reads a list through the cache. Concurrent misses on the
// same list and generation share one database load.
func (s *bookService) cachedList(ctx context.Context, viewer, list string, load func() ([]dto.Book, error)) ([]dto.Book, error) {
	key := cache.Key(viewer, list)

	books, ok, err := s.cache.Get(ctx, viewer, list)
	if err != nil {
		s.logger.Warn("⚠️ [BookService] Cache read failed", "key", key, "error", err)
	} else if ok {
		return books, nil
	}

	// Read before the load so a concurrent invalidation discards this fill
	generation, err := s.cache.Generation(ctx, viewer)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("⚠️ [BookService] Cache generation read failed", "key", key, "error", err)
	}

	flight := fmt.Sprintf("%s@%d", key, generation)
	value, err, _ := s.group.Do(flight, func() (interface{}, error) {
		books, err := load()
		if err != nil {
			return nil, err
		}
		if cacheable {
			if _, err := s.cache.Set(ctx, viewer, list, generation, books); err != nil {
				s.logger.Warn("⚠️ [BookService] Cache write failed", "key", key, "error", err)
			}
		}
		return books, nil
	})
	if err != nil {
		s.logger.Error("❌ [BookService] Failed to load list", "key", key, "error", err)
		return nil, err
	}

	return value.([]dto.Book), nil
}

// revalidate drops the user's cached lists before the mutation returns.
// The library list is then warmed in the background when a runner is set.
func (s *bookService) revalidate(ctx context.Context, userID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revalidateTimeout)
	defer cancel()

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Error("❌ [BookService] Cache revalidation failed", "user_id", userID, "error", err)
	}

	if s.tasks == nil {
		return
	}
	s.tasks.SubmitWithTimeout("warm-library", revalidateTimeout, func(ctx context.Context) {
		if _, err := s.GetUserBooks(ctx, userID); err != nil {
			s.logger.Warn("⚠️ [BookService] Library warm-up failed", "user_id", userID, "error", err)
		}
	})
}

// Service errors for books
var (
	ErrInvalidProgress = errors.New("invalid reading progress")
)
