package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vedran77/devfolio/internal/walrus"
)

var (
	ErrEmptyUpload    = errors.New("upload is empty")
	ErrUploadTooLarge = errors.New("upload exceeds the size limit")
	ErrNotAnImage     = errors.New("upload is not an image")
)

// BlobStore persists image bytes and returns the blob id.
type BlobStore interface {
	Store(ctx context.Context, body io.Reader, epochs int) (*walrus.Blob, error)
}

// MediaService uploads avatar, project and certificate images to Walrus.
type MediaService struct {
	store    BlobStore
	epochs   int
	maxBytes int64
}

func NewMediaService(store BlobStore, epochs int, maxBytes int64) *MediaService {
	return &MediaService{store: store, epochs: epochs, maxBytes: maxBytes}
}

func (s *MediaService) Upload(ctx context.Context, body io.Reader) (*walrus.Blob, error) {
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrUploadTooLarge
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, ErrNotAnImage
	}

	blob, err := s.store.Store(ctx, bytes.NewReader(data), s.epochs)
	if err != nil {
		return nil, fmt.Errorf("storing blob: %w", err)
	}
	if blob.Size == 0 {
		blob.Size = int64(len(data))
	}
	return blob, nil
}
