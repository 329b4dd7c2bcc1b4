package storage

import (
	"fmt"
	"io"

	"github.com/lunanest/storytime/internal/config"
)

// Storage defines the interface for audio file storage operations
type Storage interface {
	// Save stores a file at the given path
	Save(path string, file io.Reader) error

	// Delete removes a file at the given path
	Delete(path string) error

	// URL returns the URL for accessing the file
	URL(path string) string
}

// New selects the storage backend from config. Local disk is the default;
// S3-compatible storage is for deployments without a persistent disk.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "", "local":
		return NewLocalStorage(cfg.UploadsDir)
	case "s3":
		return NewS3Storage(S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}
