package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Kind selects how the backing store treats an asset.
type Kind string

const (
	KindImage    Kind = "image"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
)

var (
	ErrUpload      = errors.New("upload failed")
	ErrUnknownKind = errors.New("unknown asset kind")
)

// Asset is an in-memory file headed for the object store.
type Asset struct {
	Data        []byte
	ContentType string
	Kind        Kind
}

// Uploader stores assets remotely and returns their public URLs.
type Uploader interface {
	UploadURL(ctx context.Context, remoteURL string, kind Kind) (string, error)
	UploadBuffer(ctx context.Context, asset Asset) (string, error)
	UploadBatch(ctx context.Context, assets []Asset) ([]string, error)
}

// MediaType returns the asset content type, defaulting by kind.
func (a Asset) MediaType() string {
	if a.ContentType != "" {
		if mt, _, err := mime.ParseMediaType(a.ContentType); err == nil {
			return mt
		}
	}
	switch a.Kind {
	case KindAudio:
		return "audio/mpeg"
	case KindDocument:
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}

// DataURI encodes the asset as a base64 data URI.
func (a Asset) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", a.MediaType(), base64.StdEncoding.EncodeToString(a.Data))
}

// Extension picks a file extension for the asset's media type.
func (a Asset) Extension() string {
	mt := a.MediaType()
	switch mt {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "audio/mpeg":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "application/pdf":
		return ".pdf"
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return exts[0]
	}
	if i := strings.IndexByte(mt, '/'); i >= 0 && i < len(mt)-1 {
		return "." + mt[i+1:]
	}
	return ""
}

// uploadBatch runs one upload per asset concurrently; urls[i] belongs to assets[i].
func uploadBatch(ctx context.Context, u Uploader, assets []Asset) ([]string, error) {
	urls := make([]string, len(assets))
	g, ctx := errgroup.WithContext(ctx)
	for i, asset := range assets {
		g.Go(func() error {
			url, err := u.UploadBuffer(ctx, asset)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
