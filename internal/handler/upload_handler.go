package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/config"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/validation"
)

// multipartOverhead is the slack allowed for form boundaries and headers
const multipartOverhead = 1 << 20

// UploadHandler handles PDF and cover image uploads
type UploadHandler struct {
	service service.UploadService
	limiter middleware.UploadLimiter
	cfg     *config.Config
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload handler. Stored uploads are counted
// against the limiter's daily quota.
func NewUploadHandler(service service.UploadService, limiter middleware.UploadLimiter, cfg *config.Config, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
	}
}

// UploadPDF accepts a single PDF in the "file" field
func (h *UploadHandler) UploadPDF(c *gin.Context) {
	h.upload(c, validation.KindPDF, h.cfg.MaxPDFSize)
}

// UploadImage accepts a single image in the "file" field
func (h *UploadHandler) UploadImage(c *gin.Context) {
	h.upload(c, validation.KindImage, h.cfg.MaxImageSize)
}

func (h *UploadHandler) upload(c *gin.Context, kind validation.FileKind, maxSize int64) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": validation.ErrFileTooLarge.Error()})
			return
		}
		h.logger.Warn("⚠️ [Handler] Upload without file", "user_id", userID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.ErrNoFile.Error()})
		return
	}

	file, status, err := validation.ValidateUpload(fh, kind, maxSize)
	if err != nil {
		h.logger.Warn("⚠️ [Handler] Upload rejected",
			"user_id", userID,
			"kind", kind,
			"filename", fh.Filename,
			"error", err,
		)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if file.PageCountErr != nil {
		h.logger.Warn("⚠️ [Handler] PDF page count unavailable",
			"user_id", userID,
			"filename", fh.Filename,
			"error", file.PageCountErr,
		)
	}

	ctx := c.Request.Context()
	result, err := h.service.Store(ctx, userID, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	if err := h.limiter.Record(ctx, userID); err != nil {
		h.logger.Warn("⚠️ [Handler] Upload was not counted", "user_id", userID, "error", err)
	}
	remaining, err := h.limiter.Remaining(ctx, userID)
	if err != nil {
		h.logger.Warn("⚠️ [Handler] Failed to read upload quota", "user_id", userID, "error", err)
	} else if remaining >= 0 {
		result.Remaining = &remaining
	}

	c.JSON(http.StatusOK, result)
}
