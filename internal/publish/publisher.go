package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Publisher runs the upload operations of the pipeline against an
// ObjectStore. All operations are fail-fast and sequential.
type Publisher struct {
	store ObjectStore
}

// NewPublisher creates a publisher on the given store.
func NewPublisher(store ObjectStore) *Publisher {
	return &Publisher{store: store}
}

// PublishFile uploads one local file to an explicit key.
func (p *Publisher) PublishFile(ctx context.Context, localPath, key, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrPublishFailed)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrPublishFailed)
	}
	if err := p.store.Upload(ctx, key, f, info.Size(), contentType); err != nil {
		return fmt.Errorf("%v: %w", err, ErrPublishFailed)
	}
	return nil
}

// PublishTree uploads the web deployment archive as-is to a fixed
// top-level key named after the archive itself. This is a coarse
// whole-tree transfer; per-file uploads with content types happen in
// PublishDir.
func (p *Publisher) PublishTree(ctx context.Context, archivePath string) error {
	return p.PublishFile(ctx, archivePath, filepath.Base(archivePath), "")
}

// PublishDir uploads every regular file directly under dir (flat,
// non-recursive) to its revision-qualified web key, selecting a content
// type per rules. Each file is uploaded exactly once; transient failures
// are surfaced, not retried.
func (p *Publisher) PublishDir(ctx context.Context, dir string, target Target, rules ContentTypeRules) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrPublishFailed)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		key := target.WebKey(name)
		if err := p.PublishFile(ctx, filepath.Join(dir, name), key, rules.For(name)); err != nil {
			return err
		}
	}
	return nil
}

// RepairContentType rewrites a stored object's content type by downloading
// it to a scoped temporary file and re-uploading it under newKey with the
// corrected type. The store does not honour in-place metadata edits, so
// the full round-trip is the only verified repair. Idempotent: re-running
// with the same arguments converges on the same object state.
func (p *Publisher) RepairContentType(ctx context.Context, existingKey, newKey, contentType string) error {
	r, err := p.store.Download(ctx, existingKey)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrPublishFailed)
	}
	defer r.Close()

	tmp, err := os.CreateTemp("", "content-type-repair-*")
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrPublishFailed)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("%v: %w", err, ErrPublishFailed)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return fmt.Errorf("%v: %w", err, ErrPublishFailed)
	}

	uploadErr := p.store.Upload(ctx, newKey, tmp, size, contentType)
	closeErr := tmp.Close()
	if uploadErr != nil {
		return fmt.Errorf("%v: %w", uploadErr, ErrPublishFailed)
	}
	if closeErr != nil {
		return fmt.Errorf("%v: %w", closeErr, ErrPublishFailed)
	}
	return nil
}

// Exists reports whether an object is already stored at key.
func (p *Publisher) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := p.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%v: %w", err, ErrPublishFailed)
	}
	return ok, nil
}
