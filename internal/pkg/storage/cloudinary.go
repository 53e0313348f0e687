package storage

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryUploader uploads data URIs and remote URLs through the Cloudinary SDK.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string, logger *zap.Logger) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryUploader{
		cld:    cld,
		folder: folder,
		logger: logger,
	}, nil
}

func (u *CloudinaryUploader) UseDefaultClient() {
	u.cld.Upload.Client = *http.DefaultClient
}

// resourceType maps an asset kind to Cloudinary's resource class. Audio is
// handled by the video pipeline.
func resourceType(kind Kind) (string, error) {
	switch kind {
	case KindImage, "":
		return "image", nil
	case KindAudio:
		return "video", nil
	case KindDocument:
		return "raw", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

func (u *CloudinaryUploader) UploadURL(ctx context.Context, remoteURL string, kind Kind) (string, error) {
	return u.upload(ctx, remoteURL, kind)
}

func (u *CloudinaryUploader) UploadBuffer(ctx context.Context, asset Asset) (string, error) {
	return u.upload(ctx, asset.DataURI(), asset.Kind)
}

func (u *CloudinaryUploader) UploadBatch(ctx context.Context, assets []Asset) ([]string, error) {
	return uploadBatch(ctx, u, assets)
}

func (u *CloudinaryUploader) upload(ctx context.Context, file string, kind Kind) (string, error) {
	rt, err := resourceType(kind)
	if err != nil {
		return "", err
	}

	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: rt,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUpload, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%w: cloudinary returned no url", ErrUpload)
	}

	u.logger.Debug("uploaded asset", zap.String("kind", string(kind)), zap.String("public_id", res.PublicID))
	return res.SecureURL, nil
}
