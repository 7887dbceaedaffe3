package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocator(t *testing.T, mode Mode, binaries ...string) *Locator {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "target", string(mode))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range binaries {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("bin"), 0o755))
	}
	return NewLocator(root, "target")
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"debug", "release"} {
		mode, err := ParseMode(valid)
		require.NoError(t, err)
		assert.Equal(t, Mode(valid), mode)
	}

	_, err := ParseMode("profile")
	assert.Error(t, err)
}

func TestLocateRequired(t *testing.T) {
	l := newTestLocator(t, ModeRelease, "slime99_wgpu")

	path, err := l.Locate(ModeRelease, "slime99_wgpu")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestLocateMissingRequired(t *testing.T) {
	l := newTestLocator(t, ModeRelease, "slime99_wgpu")

	_, err := l.Locate(ModeRelease, "slime99_ansi_terminal")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocateUnbuiltModeFails(t *testing.T) {
	l := newTestLocator(t, ModeRelease, "slime99_wgpu")

	// debug was never built, so the mode directory itself is absent
	_, err := l.Locate(ModeDebug, "slime99_wgpu")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocateOptionalAbsent(t *testing.T) {
	l := newTestLocator(t, ModeDebug, "slime99_wgpu")

	path, err := l.LocateOptional(ModeDebug, "slime99_ansi_terminal")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLocateOptionalPresent(t *testing.T) {
	l := newTestLocator(t, ModeDebug, "slime99_wgpu", "slime99_ansi_terminal")

	path, err := l.LocateOptional(ModeDebug, "slime99_ansi_terminal")
	require.NoError(t, err)
	assert.FileExists(t, path)
}
