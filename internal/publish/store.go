// Package publish uploads release artifacts to the object store and owns
// the key layout and content-type rules for stored objects.
package publish

import (
	"context"
	"errors"
	"io"
)

// ErrPublishFailed reports a failed object-store operation. The pipeline
// never retries: CI re-invocation is the retry mechanism, and uploads are
// idempotent overwrites.
var ErrPublishFailed = errors.New("publish failed")

// ObjectStore is the transfer surface the publisher runs on. Injected so
// the pipeline is testable without network access.
type ObjectStore interface {
	// Upload writes size bytes from r to key. An empty contentType
	// leaves the stored type to the store's own inference.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Download opens the object at key for reading.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
}
