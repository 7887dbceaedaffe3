package archive

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stageDir builds a staging directory with a named top-level folder.
func stageDir(t *testing.T, root string, files map[string]string) string {
	t.Helper()
	staging := t.TempDir()
	for name, content := range files {
		path := filepath.Join(staging, root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	}
	return staging
}

func TestWriteZipRoundTrip(t *testing.T) {
	staging := stageDir(t, "slime99-linux", map[string]string{
		"slime99":          "main binary",
		"slime99_terminal": "terminal binary",
	})

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd)

	out, err := WriteZip(staging, "slime99-linux")
	require.NoError(t, err)
	assert.Equal(t, "slime99-linux.zip", out)

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	got := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		got[f.Name] = string(data)
	}

	assert.Equal(t, map[string]string{
		"slime99-linux/slime99":          "main binary",
		"slime99-linux/slime99_terminal": "terminal binary",
	}, got)
}

func TestWriteZipPreservesModeBits(t *testing.T) {
	staging := stageDir(t, "slime99-linux", map[string]string{"slime99": "bin"})

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd)

	out, err := WriteZip(staging, "slime99-linux")
	require.NoError(t, err)

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 1)
	assert.NotZero(t, r.File[0].Mode()&0o100, "exec bit must survive compression")
}

func TestWriteZipPathQualifiedOutName(t *testing.T) {
	staging := stageDir(t, "slime99-linux", map[string]string{"slime99": "bin"})

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd)

	require.NoError(t, os.Mkdir("dist", 0o755))
	out, err := WriteZip(staging, filepath.Join("dist", "slime99-linux"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("dist", "slime99-linux.zip"), out)
	assert.FileExists(t, out)
}

type fakeImager struct {
	err     error
	srcDir  string
	volName string
}

func (f *fakeImager) Create(ctx context.Context, srcDir, volName, outPath string) error {
	f.srcDir = srcDir
	f.volName = volName
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outPath, []byte("dmg"), 0o644)
}

func TestWriteDiskImage(t *testing.T) {
	staging := stageDir(t, "slime99.app", map[string]string{
		"Contents/MacOS/slime99": "bin",
	})

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd)

	imager := &fakeImager{}
	out, err := WriteDiskImage(context.Background(), imager, staging, "slime99", "slime99")
	require.NoError(t, err)
	assert.Equal(t, "slime99.dmg", out)
	assert.FileExists(t, out)
	assert.Equal(t, staging, imager.srcDir)
	assert.Equal(t, "slime99", imager.volName)
}

func TestWriteDiskImageToolFailure(t *testing.T) {
	staging := stageDir(t, "slime99.app", map[string]string{
		"Contents/MacOS/slime99": "bin",
	})

	imager := &fakeImager{err: errors.New("hdiutil: exit status 1")}
	_, err := WriteDiskImage(context.Background(), imager, staging, "slime99", "slime99")
	assert.True(t, errors.Is(err, ErrArchiveFailed))
}
