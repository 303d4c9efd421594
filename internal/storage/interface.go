package storage

import (
	"context"
	"io"
)

// Service defines the interface for object storage operations. Uploads
// return a publicly resolvable URL for the stored object.
type Service interface {
	UploadImage(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	DeleteImage(ctx context.Context, key string) error
}

// Logger interface for logging operations
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
}
