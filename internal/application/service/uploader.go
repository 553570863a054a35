package service

import (
	"context"
	"io"
)

// BlobStore is the path-addressed object store holding uploaded item files.
type BlobStore interface {
	Upload(ctx context.Context, path string, file io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}
