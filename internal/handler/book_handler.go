package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/validation"
)

const (
	msgValidation      = "Validation failed."
	msgLoginToUpload   = "You must be logged in to upload a book."
	msgLoginRequired   = "You must be logged in to manage your library."
	msgNotInLibrary    = "Book not found in your library."
	msgBookNotFound    = "Book not found."
	msgLoadBooksFailed = "Failed to load books. Please try again."
)

// BookHandler handles library actions and queries
type BookHandler struct {
	service   service.BookService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookHandler creates a new book handler
func NewBookHandler(service service.BookService, validator *validation.Validator, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

// Create handles the create-book action. Input is validated before the
// session is checked.
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BookActionState{
			Success: false,
			Message: msgValidation,
			Errors:  map[string][]string{"body": {"Invalid JSON body."}},
		})
		return
	}
	req.Normalize()

	if errs := h.validator.Struct(req); errs != nil {
		c.JSON(http.StatusBadRequest, dto.BookActionState{Success: false, Message: msgValidation, Errors: errs})
		return
	}

	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, dto.BookActionState{Success: false, Message: msgLoginToUpload})
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), userID, service.CreateBookInput{
		Title:        req.Title,
		Author:       req.Author,
		PDFURL:       req.PDFURL,
		ThumbnailURL: req.ThumbnailURL,
		TotalPages:   req.TotalPages,
	})
	if err != nil {
		h.logger.Error("❌ [Handler] Failed to create book", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.BookActionState{
			Success: false,
			Message: "Failed to create book. Please try again.",
		})
		return
	}

	c.JSON(http.StatusCreated, dto.BookActionState{
		Success: true,
		Message: "Book added successfully!",
		BookID:  book.ID,
	})
}

// ListMine returns the viewer's personal books
func (h *BookHandler) ListMine(c *gin.Context) {
	books, err := h.service.GetUserBooks(c.Request.Context(), c.GetString("userID"))
	h.respondList(c, books, err)
}

// ListSuggested returns the suggested catalog
func (h *BookHandler) ListSuggested(c *gin.Context) {
	books, err := h.service.GetSuggestedBooks(c.Request.Context(), c.GetString("userID"))
	h.respondList(c, books, err)
}

// ListFavorites returns the viewer's favorite books
func (h *BookHandler) ListFavorites(c *gin.Context) {
	books, err := h.service.GetFavoriteBooks(c.Request.Context(), c.GetString("userID"))
	h.respondList(c, books, err)
}

func (h *BookHandler) respondList(c *gin.Context, books []dto.Book, err error) {
	if err != nil {
		h.logger.Error("❌ [Handler] Failed to list books", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": msgLoadBooksFailed})
		return
	}
	if books == nil {
		books = []dto.Book{}
	}
	c.JSON(http.StatusOK, books)
}

// Get returns a single book for the reading view
func (h *BookHandler) Get(c *gin.Context) {
	book, err := h.service.GetBook(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": msgBookNotFound})
			return
		}
		h.logger.Error("❌ [Handler] Failed to load book", "book_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": msgLoadBooksFailed})
		return
	}

	c.JSON(http.StatusOK, book)
}

// UpdateFavorite sets the favorite flag of a library entry
func (h *BookHandler) UpdateFavorite(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req dto.FavoriteRequest
	if !h.bindUpdate(c, &req) {
		return
	}

	userBook, err := h.service.UpdateFavorite(c.Request.Context(), userID, c.Param("id"), *req.IsFavorite)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update favorite status. Please try again.")
		return
	}

	message := "Removed from favorites."
	if *req.IsFavorite {
		message = "Added to favorites."
	}
	h.respondUpdate(c, http.StatusOK, message, userBook)
}

// Delete removes a book from the user's library
func (h *BookHandler) Delete(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	userBook, err := h.service.DeleteBook(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to delete book. Please try again.")
		return
	}

	h.respondUpdate(c, http.StatusOK, "Book removed from your library.", userBook)
}

// AddToLibrary links an existing book into the user's library
func (h *BookHandler) AddToLibrary(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	userBook, created, err := h.service.AddToLibrary(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to add book to your library. Please try again.")
		return
	}

	if !created {
		h.respondUpdate(c, http.StatusOK, "Book is already in your library.", userBook)
		return
	}
	h.respondUpdate(c, http.StatusCreated, "Book added to your library.", userBook)
}

// UpdateProgress moves the reading position of a library entry
func (h *BookHandler) UpdateProgress(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req dto.ProgressRequest
	if !h.bindUpdate(c, &req) {
		return
	}

	userBook, err := h.service.UpdateProgress(c.Request.Context(), userID, c.Param("id"), req.ProgressPage, req.Status)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update progress. Please try again.")
		return
	}

	h.respondUpdate(c, http.StatusOK, "Progress updated.", userBook)
}

func (h *BookHandler) requireUser(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, dto.UpdateResult{Success: false, Message: msgLoginRequired})
		return "", false
	}
	return userID, true
}

func (h *BookHandler) bindUpdate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, dto.UpdateResult{
			Success: false,
			Message: msgValidation,
			Errors:  map[string][]string{"body": {"Invalid JSON body."}},
		})
		return false
	}
	if errs := h.validator.Struct(req); errs != nil {
		c.JSON(http.StatusBadRequest, dto.UpdateResult{Success: false, Message: msgValidation, Errors: errs})
		return false
	}
	return true
}

func (h *BookHandler) respondUpdate(c *gin.Context, status int, message string, userBook *models.UserBook) {
	result := dto.UpdateResult{Success: true, Message: message}
	if userBook != nil {
		data := dto.FromUserBook(*userBook)
		result.Data = &data
	}
	c.JSON(status, result)
}

// handleServiceError maps service errors to action results. Unknown errors
// are logged and answered with fallback.
func (h *BookHandler) handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.UpdateResult{Success: false, Message: msgLoginRequired})
	case errors.Is(err, repository.ErrUserBookNotFound):
		c.JSON(http.StatusNotFound, dto.UpdateResult{Success: false, Message: msgNotInLibrary})
	case errors.Is(err, repository.ErrBookNotFound):
		c.JSON(http.StatusNotFound, dto.UpdateResult{Success: false, Message: msgBookNotFound})
	case errors.Is(err, service.ErrInvalidProgress):
		c.JSON(http.StatusBadRequest, dto.UpdateResult{
			Success: false,
			Message: msgValidation,
			Errors:  map[string][]string{"progressPage": {"Page is outside the book."}},
		})
	default:
		h.logger.Error("❌ [Handler] Library action failed", "book_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, dto.UpdateResult{Success: false, Message: fallback})
	}
}
