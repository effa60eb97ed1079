package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/config"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
)

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		AppEnv:            "test",
		ApiServicePort:    "8080",
		SessionSecret:     "test-secret-key-for-testing-purposes",
		SessionTTL:        3600,
		SessionCookieName: "noted.session_token",
		MaxPDFSize:        32 * 1024 * 1024,
		MaxImageSize:      4 * 1024 * 1024,
		DailyUploadLimit:  0,
		LibraryCacheTTL:   60,
		StorageEndpoint:   "minio:9000",
		StorageBucket:     "noted-books",
	}
}

// TestLogger returns a silent logger for testing
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB opens a migrated in-memory SQLite database
func NewTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every pooled connection would get its own in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Book{},
		&models.UserBook{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}
