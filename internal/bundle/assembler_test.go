package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbugs/slime99-release/internal/artifact"
)

func newTestLocator(t *testing.T, binaries ...string) *artifact.Locator {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "target", "release")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range binaries {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("binary "+name), 0o755))
	}
	return artifact.NewLocator(root, "target")
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() || info.Mode()&os.ModeSymlink != 0 {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestAssembleFlatLayout(t *testing.T) {
	locator := newTestLocator(t, "slime99_wgpu", "slime99_ansi_terminal")
	assembler := NewAssembler(locator, "")

	staging, cleanup, err := assembler.Assemble(
		artifact.ModeRelease,
		FlatLayout{Name: "slime99-linux"},
		artifact.LinuxSpec("slime99"),
	)
	require.NoError(t, err)
	defer cleanup()

	assert.ElementsMatch(t, []string{
		filepath.Join("slime99-linux", "slime99"),
		filepath.Join("slime99-linux", "slime99_terminal"),
	}, listFiles(t, staging))
}

func TestAssembleSkipsAbsentOptional(t *testing.T) {
	locator := newTestLocator(t, "slime99_wgpu")
	assembler := NewAssembler(locator, "")

	staging, cleanup, err := assembler.Assemble(
		artifact.ModeRelease,
		FlatLayout{Name: "slime99-linux"},
		artifact.LinuxSpec("slime99"),
	)
	require.NoError(t, err)
	defer cleanup()

	assert.ElementsMatch(t, []string{
		filepath.Join("slime99-linux", "slime99"),
	}, listFiles(t, staging))
}

func TestAssembleMissingRequiredCleansUp(t *testing.T) {
	locator := newTestLocator(t, "slime99_ansi_terminal")
	assembler := NewAssembler(locator, "")

	staging, _, err := assembler.Assemble(
		artifact.ModeRelease,
		FlatLayout{Name: "slime99-linux"},
		artifact.LinuxSpec("slime99"),
	)
	assert.True(t, errors.Is(err, artifact.ErrNotFound))
	assert.Empty(t, staging)
}

func TestAssemblePreservesExecBit(t *testing.T) {
	locator := newTestLocator(t, "slime99_wgpu")
	assembler := NewAssembler(locator, "")

	staging, cleanup, err := assembler.Assemble(
		artifact.ModeRelease,
		FlatLayout{Name: "slime99-linux"},
		artifact.LinuxSpec("slime99"),
	)
	require.NoError(t, err)
	defer cleanup()

	info, err := os.Stat(filepath.Join(staging, "slime99-linux", "slime99"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "exec bit must survive staging")
}

func TestAssembleIncludesExtras(t *testing.T) {
	locator := newTestLocator(t, "slime99_wgpu")
	extras := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(extras, "LICENSE"), []byte("MIT"), 0o644))
	assembler := NewAssembler(locator, extras)

	staging, cleanup, err := assembler.Assemble(
		artifact.ModeRelease,
		FlatLayout{Name: "slime99-linux"},
		artifact.LinuxSpec("slime99"),
	)
	require.NoError(t, err)
	defer cleanup()

	assert.Contains(t, listFiles(t, staging), filepath.Join("slime99-linux", "LICENSE"))
}

func TestAssembleAppLayout(t *testing.T) {
	locator := newTestLocator(t, "slime99_wgpu")
	assembler := NewAssembler(locator, "")

	staging, cleanup, err := assembler.Assemble(
		artifact.ModeRelease,
		AppLayout{AppName: "slime99", MainBinary: "slime99"},
		artifact.MacSpec("slime99"),
	)
	require.NoError(t, err)
	defer cleanup()

	macOS := filepath.Join(staging, "slime99.app", "Contents", "MacOS")
	assert.FileExists(t, filepath.Join(macOS, "slime99"))
	assert.FileExists(t, filepath.Join(macOS, "run.sh"))
	assert.FileExists(t, filepath.Join(staging, "slime99.app", "Contents", "Info.plist"))

	link, err := os.Readlink(filepath.Join(staging, "Applications"))
	require.NoError(t, err)
	assert.Equal(t, "/Applications", link)

	shim, err := os.ReadFile(filepath.Join(macOS, "run.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(shim), "exec ./slime99")
}

func TestCleanupRemovesStagingDir(t *testing.T) {
	locator := newTestLocator(t, "slime99_wgpu")
	assembler := NewAssembler(locator, "")

	staging, cleanup, err := assembler.Assemble(
		artifact.ModeRelease,
		FlatLayout{Name: "slime99-linux"},
		artifact.LinuxSpec("slime99"),
	)
	require.NoError(t, err)

	cleanup()
	_, err = os.Stat(staging)
	assert.True(t, os.IsNotExist(err))

	// safe to call twice
	cleanup()
}
