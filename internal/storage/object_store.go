package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/config"
)

// ObjectStore provides access to uploaded files
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	URL(key string) string
}

// MinioStore implements ObjectStore for MinIO/S3 compatible storage
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioStore connects to MinIO and ensures the bucket exists
func NewMinioStore(cfg *config.Config, logger *slog.Logger) (*MinioStore, error) {
	logger.Info("🔌 [Storage] Connecting to object storage...",
		"endpoint", cfg.StorageEndpoint,
		"bucket", cfg.StorageBucket,
	)

	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.StorageBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Info("🪣 [Storage] Created bucket", "bucket", cfg.StorageBucket)
	}

	logger.Info("✅ [Storage] Object storage ready")

	return &MinioStore{
		client:     client,
		bucket:     cfg.StorageBucket,
		publicBase: PublicBase(cfg),
	}, nil
}

// PublicBase returns the URL prefix under which bucket objects are served
func PublicBase(cfg *config.Config) string {
	if cfg.StoragePublicURL != "" {
		return strings.TrimRight(cfg.StoragePublicURL, "/")
	}
	scheme := "http"
	if cfg.StorageUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, cfg.StorageEndpoint)
}

// Put uploads an object
func (m *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// URL returns the public address of an object
func (m *MinioStore) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicBase, m.bucket, strings.TrimLeft(key, "/"))
}
