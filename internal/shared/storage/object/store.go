package object

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the contract for saving, retrieving, and signing
// access to binary objects.
type ObjectStore interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
	SignedUploadURL(ctx context.Context, storageKey string, contentType string, expires time.Duration) (string, error)
	SignedDownloadURL(ctx context.Context, storageKey string, expires time.Duration) (string, error)
}

// ReadAll downloads an object and returns its full contents.
func ReadAll(ctx context.Context, store ObjectStore, storageKey string) ([]byte, error) {
	body, err := store.Open(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}
