package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/danevents/api/internal/storage"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
)

// Service implements the storage.Service interface over an S3-compatible
// endpoint
type Service struct {
	client *minio.Client
	bucket string
	logger storage.Logger
}

// NewService creates a new S3 service instance
func NewService(cfg *storage.S3Config, logger storage.Logger) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %v", err)
	}

	return &Service{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// UploadImage uploads an image blob and returns its public URL
func (s *Service) UploadImage(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	result, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %v", err)
	}

	s.logger.LogInfo("Image uploaded to S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"size":   size,
	})

	if result.Location != "" {
		return result.Location, nil
	}
	return fmt.Sprintf("https://%s/%s/%s", s.client.EndpointURL().Host, s.bucket, key), nil
}

// DeleteImage removes an image from the bucket
func (s *Service) DeleteImage(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete image from S3: %v", err)
	}
	return nil
}
