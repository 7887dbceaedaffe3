package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherSignalsOnChange(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.Debounce = 50 * time.Millisecond

	w, err := NewWatcher(cfg)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("x"), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal received")
	}
}

func TestWatcherIgnoresBuildOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0o755))

	cfg := DefaultConfig(dir)
	cfg.Debounce = 50 * time.Millisecond

	w, err := NewWatcher(cfg)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dist", "app.js"), []byte("x"), 0o644))

	select {
	case <-w.Changes():
		t.Fatal("change signal for ignored directory")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherStartRetryAfterFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "web")
	cfg := DefaultConfig(dir)
	cfg.Debounce = 50 * time.Millisecond

	w, err := NewWatcher(cfg)
	require.NoError(t, err)

	// directory does not exist yet, so the first start must fail
	require.Error(t, w.Start(context.Background()))

	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("x"), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not running after restart")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
