package storage

import (
	"context"
	"fmt"

	"antiscam/internal/config"

	"go.uber.org/zap"
)

// NewUploader builds the uploader selected by STORAGE_BACKEND.
func NewUploader(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Uploader, error) {
	switch cfg.StorageBackend {
	case config.StorageCloudinary:
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			return nil, fmt.Errorf("cloudinary credentials are not configured")
		}
		return NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder, logger)
	case config.StorageS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is not configured")
		}
		client, err := NewS3Client(ctx, cfg.AWSRegion, cfg.AWSEndpointURL)
		if err != nil {
			return nil, err
		}
		return NewS3Uploader(client, cfg.S3Bucket, cfg.AWSRegion, cfg.S3PublicBaseURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
