package ports

import (
	"context"
	"io"
)

// BlobStorage stores raw file bytes under slash-separated keys such as
// "models/3d/rock_1a2b3c4d.glb".
type BlobStorage interface {
	// Put writes r under key and returns the number of bytes stored.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	// Open returns domain.ErrBlobNotFound when key does not exist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Size(ctx context.Context, key string) (int64, error)
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
	// URL is the public address of key. It may be relative.
	URL(key string) string
}
