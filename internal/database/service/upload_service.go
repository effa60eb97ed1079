package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/storage"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/validation"
)

// UploadService stores validated files for a user
type UploadService interface {
	Store(ctx context.Context, userID string, file *validation.File) (*dto.UploadResult, error)
}

type uploadService struct {
	store  storage.ObjectStore
	logger *slog.Logger
}

// NewUploadService creates a new upload service instance
func NewUploadService(store storage.ObjectStore, logger *slog.Logger) UploadService {
	return &uploadService{
		store:  store,
		logger: logger,
	}
}

// ObjectKey returns the storage key of a new upload
func ObjectKey(userID, extension string) string {
	return fmt.Sprintf("uploads/%s/%s%s", userID, uuid.NewString(), extension)
}

func (s *uploadService) Store(ctx context.Context, userID string, file *validation.File) (*dto.UploadResult, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	key := ObjectKey(userID, file.Extension)

	s.logger.Info("📤 [UploadService] Storing file",
		"user_id", userID,
		"key", key,
		"content_type", file.ContentType,
		"size", len(file.Data),
	)

	if err := s.store.Put(ctx, key, bytes.NewReader(file.Data), int64(len(file.Data)), file.ContentType); err != nil {
		s.logger.Error("❌ [UploadService] Failed to store file", "key", key, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [UploadService] Upload complete", "user_id", userID, "key", key)

	return &dto.UploadResult{
		UploadedBy: userID,
		FileURL:    s.store.URL(key),
		FileKey:    key,
		TotalPages: file.TotalPages,
	}, nil
}
