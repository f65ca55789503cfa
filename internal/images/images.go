// Package images stores uploaded image blobs keyed by generated id.
package images

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound = errors.New("image not found")
	ErrNotImage = errors.New("content is not an image")
	ErrEmpty    = errors.New("image is empty")
)

// Image is one stored blob.
type Image struct {
	ID          string
	ContentType string
	Data        []byte
}

// Store is implemented by every blob backend.
type Store interface {
	Put(ctx context.Context, image Image) error
	Get(ctx context.Context, id string) (Image, error)
	Ping(ctx context.Context) error
}

// DetectContentType sniffs data and accepts only image/* types.
func DetectContentType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, contentType)
	}
	return contentType, nil
}
