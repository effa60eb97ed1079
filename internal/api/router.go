package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/middleware"
)

func SetupRouter(
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	uploadHandler *handler.UploadHandler,
	authMiddleware *middleware.AuthMiddleware,
	uploadLimiter middleware.UploadLimiter,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Public routes
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes (Public)
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/session", authHandler.Session)
	}

	// Book routes resolve the session themselves so anonymous reads and
	// the create action's validation-first ordering keep working
	books := r.Group("/api/v1/books")
	books.Use(authMiddleware.OptionalAuth())
	{
		books.POST("", bookHandler.Create)
		books.GET("/mine", bookHandler.ListMine)
		books.GET("/suggested", bookHandler.ListSuggested)
		books.GET("/favorites", bookHandler.ListFavorites)
		books.GET("/:id", bookHandler.Get)
		books.PATCH("/:id/favorite", bookHandler.UpdateFavorite)
		books.PATCH("/:id/progress", bookHandler.UpdateProgress)
		books.POST("/:id/library", bookHandler.AddToLibrary)
		books.DELETE("/:id", bookHandler.Delete)
	}

	// Protected upload routes
	uploads := r.Group("/api/v1/uploads")
	uploads.Use(authMiddleware.RequireAuth(), middleware.UploadLimit(uploadLimiter, logger))
	{
		uploads.POST("/pdf", uploadHandler.UploadPDF)
		uploads.POST("/image", uploadHandler.UploadImage)
	}

	// UI routes behind the route guard
	pages := r.Group("/")
	pages.Use(authMiddleware.OptionalAuth(), middleware.RouteGuard())
	{
		pages.GET("/", handler.Page("landing"))
		pages.GET("/login", handler.Page("login"))
		pages.GET("/signup", handler.Page("signup"))
		pages.GET("/read", handler.Page("library"))
		pages.GET("/read/*path", handler.Page("library"))
	}

	return r
}
