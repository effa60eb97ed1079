package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/api"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/config"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/cache"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/storage"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/validation"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/worker"
)

const sessionSweepInterval = 10 * time.Minute

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting Noted backend...",
		"environment", cfg.AppEnv,
		"port", cfg.ApiServicePort,
	)

	// 3. Connect to Database
	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	db := database.GetDatabase()

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	bookRepo := repository.NewBookRepository(db)
	userBookRepo := repository.NewUserBookRepository(db)

	// 5. Initialize Redis backed stores
	var sessions database.SessionStore
	var memorySessions *database.MemorySessionStore
	listCache := cache.NewNoopListCache()
	uploadLimiter := middleware.NewNoOpUploadLimiter(appLogger)

	redisClient, err := database.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis", "error", err)
		appLogger.Info("💡 Sessions are kept in memory, list caching and upload limits are disabled")
		memorySessions = database.NewMemorySessionStore()
		sessions = memorySessions
	} else {
		sessions = redisClient
		listCache = cache.NewRedisListCache(redisClient.GetClient(), time.Duration(cfg.LibraryCacheTTL)*time.Second, appLogger)
		uploadLimiter = middleware.NewUploadLimiter(redisClient.GetClient(), cfg.DailyUploadLimit, appLogger)
	}
	defer sessions.Close()

	// 6. Object storage
	objectStore, err := storage.NewMinioStore(cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	// 7. Background workers
	pool := worker.NewPool(appLogger)
	if memorySessions != nil {
		pool.Submit("session-sweep", func(ctx context.Context) {
			memorySessions.RunSweeper(ctx, sessionSweepInterval)
		})
	}

	// 8. Initialize Services
	authService := service.NewAuthService(userRepo, accountRepo, sessions, cfg, appLogger)
	bookService := service.NewBookService(bookRepo, userBookRepo, listCache, pool, appLogger)
	uploadService := service.NewUploadService(objectStore, appLogger)

	// 9. Initialize Handlers & Middleware
	validator := validation.New()
	authHandler := handler.NewAuthHandler(authService, validator, cfg, appLogger)
	bookHandler := handler.NewBookHandler(bookService, validator, appLogger)
	uploadHandler := handler.NewUploadHandler(uploadService, uploadLimiter, cfg, appLogger)
	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.SessionCookieName, appLogger)

	r := api.SetupRouter(authHandler, bookHandler, uploadHandler, authMiddleware, uploadLimiter, appLogger)

	// 10. Start HTTP Server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler: r,
	}

	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("❌ HTTP Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("🛑 [Go] Shutting down server...")
	timeout := time.Duration(cfg.ShutdownTimeout) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("❌ Server forced to shutdown", "error", err)
	}

	if !pool.Shutdown(timeout) {
		appLogger.Warn("⚠️ Background tasks did not finish before timeout")
	}

	appLogger.Info("👋 [Go] Server exited")
}
