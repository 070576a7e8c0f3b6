package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/config"
)

// ErrObjectNotFound is returned by GetObject when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Supported backends.
const (
	BackendLocal   = "local"
	BackendS3      = "s3"
	BackendSevalla = "sevalla"
)

// ObjectInfo represents metadata for a stored artifact.
type ObjectInfo struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// ObjectStorage captures the minimal operations the model artifacts need.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	UploadObject(ctx context.Context, key string, data []byte) error
}

// New builds the artifact store selected by cfg.Backend. Local storage
// writes under localDir.
func New(cfg config.StorageConfig, localDir string) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendLocal:
		return NewLocalStorage(localDir)
	case BackendS3:
		return NewS3Storage(S3Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Prefix:    cfg.Prefix,
			UseSSL:    cfg.UseSSL,
		})
	case BackendSevalla:
		return NewSevallaClient(SevallaConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Prefix:    cfg.Prefix,
			UseSSL:    cfg.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// joinKey prefixes key, keeping forward slashes.
func joinKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

func trimKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, prefix+"/")
}
