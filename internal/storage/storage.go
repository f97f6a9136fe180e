// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider
// (MinIO, Cloudflare R2, AWS S3).
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when no object exists at the requested path.
var ErrObjectNotFound = errors.New("object not found")

// Storage is the interface for storing and retrieving file objects.
type Storage interface {
	// Upload streams data to the store under the given path. size must be
	// the exact byte count.
	Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error

	// PresignedURL returns a time-limited, unauthenticated download URL for
	// the object at path. Fails with ErrObjectNotFound if the object is missing.
	// downloadName, when non-empty, is offered to the browser as the filename.
	PresignedURL(ctx context.Context, path string, expiry time.Duration, downloadName string) (string, error)

	// Get opens the object at path for reading. The caller must close the
	// returned reader. Fails with ErrObjectNotFound if the object is missing.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, path string) error
}
