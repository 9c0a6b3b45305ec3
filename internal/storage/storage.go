package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/odo-atelier/budget-api/internal/config"
	"go.uber.org/zap"
)

var (
	// ErrObjectNotFound is returned when a key does not exist
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectTooLarge is returned by Put when the payload exceeds the configured limit
	ErrObjectTooLarge = errors.New("object too large")
	ErrInvalidKey     = errors.New("invalid storage key")
)

// Object describes a stored export file
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// Storage keeps rendered budget exports. Keys are slash-separated paths
// such as "exports/<project>/<file>".
type Storage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Remove succeeds when the key is already gone
	Remove(ctx context.Context, key string) error
}

const containerSetupTimeout = 30 * time.Second

// NewStorage picks the backend named by cfg.Mode: "local" or "azure" ("cloud" is an alias)
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	limit := cfg.MaxObjectSizeMB * 1024 * 1024
	switch cfg.Mode {
	case "local":
		return NewLocalStorage(cfg.LocalBasePath, limit)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		ctx, cancel := context.WithTimeout(context.Background(), containerSetupTimeout)
		defer cancel()
		return NewAzureBlobStorage(ctx, cfg.CloudConnectionString, cfg.CloudContainer, limit, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// cleanKey normalises key and rejects anything that would leave the storage root
func cleanKey(key string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	if key == "" || clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return clean, nil
}

func checkSize(data []byte, limit int64) error {
	if limit > 0 && int64(len(data)) > limit {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrObjectTooLarge, len(data), limit)
	}
	return nil
}
