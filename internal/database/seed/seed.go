package seed

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/repository"
)

const (
	UserID    = "test-user-id"
	UserEmail = "test@example.com"
	UserName  = "Test User"
	AccountID = "test-account-id"
	Password  = "password123"
)

type bookSeed struct {
	Title        string
	Author       string
	ThumbnailURL string
	PDFURL       string
	IsSuggested  bool

	// Library state for the seed user, ignored for suggested books
	Status       models.ReadingStatus
	IsFavorite   bool
	ProgressPage int
}

var books = []bookSeed{
	{"The Great Gatsby", "F. Scott Fitzgerald", "https://images.unsplash.com/photo-1543002588-bfa74002ed7e?w=400&q=80", "/books/great-gatsby.pdf", false, models.ReadingStatusReading, true, 45},
	{"To Kill a Mockingbird", "Harper Lee", "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400&q=80", "/books/mockingbird.pdf", false, models.ReadingStatusFinished, true, 281},
	{"The Hobbit", "J.R.R. Tolkien", "https://images.unsplash.com/photo-1621351123023-73f0f3bc30e3?w=400&q=80", "/books/hobbit.pdf", false, models.ReadingStatusFinished, false, 310},
	{"Brave New World", "Aldous Huxley", "https://images.unsplash.com/photo-1541963463532-d68292c34b19?w=400&q=80", "/books/brave-new-world.pdf", false, models.ReadingStatusNew, false, 1},
	{"Pride and Prejudice", "Jane Austen", "https://images.unsplash.com/photo-1512820790803-83ca734da794?w=400&q=80", "/books/pride-prejudice.pdf", false, models.ReadingStatusReading, false, 120},
	{"The Catcher in the Rye", "J.D. Salinger", "https://images.unsplash.com/photo-1497633762265-9d179a990aa6?w=400&q=80", "/books/catcher-rye.pdf", false, models.ReadingStatusNew, false, 1},

	{Title: "1984", Author: "George Orwell", ThumbnailURL: "https://images.unsplash.com/photo-1544716278-ca5e3f4abd8c?w=400&q=80", PDFURL: "/books/1984.pdf", IsSuggested: true},
	{Title: "Atomic Habits", Author: "James Clear", ThumbnailURL: "https://images.unsplash.com/photo-1589829085413-56de8ae18c73?w=400&q=80", PDFURL: "/books/atomic-habits.pdf", IsSuggested: true},
	{Title: "Deep Work", Author: "Cal Newport", ThumbnailURL: "https://images.unsplash.com/photo-1512428559083-a4979b2b51ff?w=400&q=80", PDFURL: "/books/deep-work.pdf", IsSuggested: true},
	{Title: "Sapiens", Author: "Yuval Noah Harari", ThumbnailURL: "https://images.unsplash.com/photo-1589998059171-988d887df646?w=400&q=80", PDFURL: "/books/sapiens.pdf", IsSuggested: true},
	{Title: "The Alchemist", Author: "Paulo Coelho", ThumbnailURL: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400&q=80", PDFURL: "/books/alchemist.pdf", IsSuggested: true},
	{Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman", ThumbnailURL: "https://images.unsplash.com/photo-1532012197267-da84d127e765?w=400&q=80", PDFURL: "/books/thinking-fast-slow.pdf", IsSuggested: true},
	{Title: "The Power of Now", Author: "Eckhart Tolle", ThumbnailURL: "https://images.unsplash.com/photo-1506880018603-83d5b814b5a6?w=400&q=80", PDFURL: "/books/power-of-now.pdf", IsSuggested: true},
	{Title: "Educated", Author: "Tara Westover", ThumbnailURL: "https://images.unsplash.com/photo-1524995997946-a1c2e315a42f?w=400&q=80", PDFURL: "/books/educated.pdf", IsSuggested: true},
}

// Summary counts what a seed run wrote
type Summary struct {
	Books     int
	UserBooks int
	Suggested int
	Reading   int
	Finished  int
	OnShelf   int
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// BookID derives the stable seed identifier: "book-" followed by the
// lowercased title with every whitespace run, leading and trailing ones
// included, replaced by "-"
func BookID(title string) string {
	return "book-" + whitespaceRun.ReplaceAllString(strings.ToLower(title), "-")
}

// Run writes the demo user, its credential account and the book catalog.
// Running it again updates the same rows instead of duplicating them.
func Run(db *gorm.DB, logger *slog.Logger) (*Summary, error) {
	logger.Info("🌱 [Seed] Starting database seed...")

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	password := string(hash)

	summary := &Summary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)
		accountRepo := repository.NewAccountRepository(tx)
		bookRepo := repository.NewBookRepository(tx)
		userBookRepo := repository.NewUserBookRepository(tx)

		user := &models.User{
			ID:            UserID,
			Email:         UserEmail,
			Name:          UserName,
			EmailVerified: true,
		}
		if err := userRepo.FirstOrCreateByEmail(user); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		logger.Info("✅ [Seed] Test user ready", "email", user.Email)

		account := &models.Account{
			ID:         AccountID,
			AccountID:  user.ID,
			ProviderID: models.ProviderCredential,
			UserID:     user.ID,
			Password:   &password,
		}
		if err := accountRepo.Upsert(account); err != nil {
			return fmt.Errorf("seed account: %w", err)
		}
		logger.Info("✅ [Seed] Test account ready", "password", Password)

		for _, b := range books {
			book := &models.Book{
				ID:           BookID(b.Title),
				Title:        b.Title,
				Author:       b.Author,
				ThumbnailURL: b.ThumbnailURL,
				PDFURL:       b.PDFURL,
				IsSuggested:  b.IsSuggested,
			}
			if err := bookRepo.Upsert(book); err != nil {
				return fmt.Errorf("seed book %q: %w", b.Title, err)
			}
			summary.Books++
			logger.Debug("📚 [Seed] Book ready", "id", book.ID)

			if b.IsSuggested {
				summary.Suggested++
				continue
			}

			userBook := &models.UserBook{
				UserID:       user.ID,
				BookID:       book.ID,
				Status:       b.Status,
				IsFavorite:   b.IsFavorite,
				ProgressPage: max(b.ProgressPage, 1),
			}
			if err := userBookRepo.Upsert(userBook); err != nil {
				return fmt.Errorf("seed library entry %q: %w", b.Title, err)
			}
			summary.UserBooks++

			switch b.Status {
			case models.ReadingStatusReading:
				summary.Reading++
			case models.ReadingStatusFinished:
				summary.Finished++
			default:
				summary.OnShelf++
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("❌ [Seed] Seed failed", "error", err)
		return nil, err
	}

	logger.Info("✨ [Seed] Seed completed successfully",
		"books", summary.Books,
		"user_books", summary.UserBooks,
		"suggested", summary.Suggested,
		"reading", summary.Reading,
		"finished", summary.Finished,
		"on_shelf", summary.OnShelf,
	)
	return summary, nil
}
