// Package storage abstracts where garment image blobs live. The shop runs a
// single server, so the shipped backend writes to the local filesystem and
// serves files back over HTTP; a cloud-bucket backend only needs to satisfy
// the same interface.
package storage

import (
	"context"
	"io"
)

type Storage interface {
	// Save writes the blob under key, creating parent directories as needed.
	Save(ctx context.Context, key string, reader io.Reader) error

	// Open returns a reader for the blob. Missing keys return an error that
	// satisfies os.IsNotExist semantics via errors.Is(err, fs.ErrNotExist).
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the blob is present and its size in bytes.
	Exists(ctx context.Context, key string) (bool, int64, error)

	// PublicURL returns the URL clients use to fetch the blob.
	PublicURL(key string) string
}
