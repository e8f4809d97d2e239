package storage

import (
	"context"
	"io"
)

// Storage is the object store used for user avatars.
type Storage interface {
	// Put stores the object under key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes an object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for key.
	GetURL(key string) string
}

// Config selects and configures a storage backend.
type Config struct {
	Driver string // "s3" or "local"

	LocalPath string
	BaseURL   string

	S3Endpoint  string // empty for AWS; MinIO or R2 endpoint otherwise
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// New builds the backend named by cfg.Driver.
func New(ctx context.Context, cfg Config) (Storage, error) {
	if cfg.Driver == "s3" {
		return NewS3Storage(ctx, cfg)
	}
	return NewLocalStorage(cfg.LocalPath, cfg.BaseURL)
}
