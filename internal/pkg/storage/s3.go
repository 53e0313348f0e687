package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectPutter is the part of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores assets in a bucket under a per-kind prefix.
type S3Uploader struct {
	api           ObjectPutter
	bucket        string
	region        string
	publicBaseURL string
	client        *http.Client
	logger        *zap.Logger
	newKey        func() string
}

// NewS3Client loads the default AWS config. A non-empty endpoint points the
// client at an S3 compatible store.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewS3Uploader(api ObjectPutter, bucket, region, publicBaseURL string, logger *zap.Logger) *S3Uploader {
	return &S3Uploader{
		api:           api,
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		client:        &http.Client{Timeout: 2 * time.Minute},
		logger:        logger,
		newKey:        func() string { return uuid.NewString() },
	}
}

func (u *S3Uploader) UseDefaultClient() {
	u.client = http.DefaultClient
}

func keyPrefix(kind Kind) (string, error) {
	switch kind {
	case KindImage, "":
		return "images", nil
	case KindAudio:
		return "audio", nil
	case KindDocument:
		return "documents", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// UploadURL downloads the remote file and stores a copy.
func (u *S3Uploader) UploadURL(ctx context.Context, remoteURL string, kind Kind) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: invalid source url: %v", ErrUpload, err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to fetch source: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: source returned status %d", ErrUpload, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read source: %v", ErrUpload, err)
	}

	return u.UploadBuffer(ctx, Asset{Data: data, ContentType: resp.Header.Get("Content-Type"), Kind: kind})
}

func (u *S3Uploader) UploadBuffer(ctx context.Context, asset Asset) (string, error) {
	prefix, err := keyPrefix(asset.Kind)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", prefix, u.newKey(), asset.Extension())
	_, err = u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(asset.Data),
		ContentType:   aws.String(asset.MediaType()),
		ContentLength: aws.Int64(int64(len(asset.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", ErrUpload, key, err)
	}

	u.logger.Debug("uploaded asset", zap.String("bucket", u.bucket), zap.String("key", key))
	return u.objectURL(key), nil
}

func (u *S3Uploader) UploadBatch(ctx context.Context, assets []Asset) ([]string, error) {
	return uploadBatch(ctx, u, assets)
}

func (u *S3Uploader) objectURL(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
