package archive

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gridbugs/slime99-release/pkg/xos"
)

// DiskImager turns a staged bundle into a disk image. Injected so the
// pipeline is testable without hdiutil.
type DiskImager interface {
	// Create writes a disk image of srcDir to outPath with the given
	// volume name.
	Create(ctx context.Context, srcDir, volName, outPath string) error
}

// HdiutilImager creates disk images with the system hdiutil tool.
type HdiutilImager struct{}

// Create runs hdiutil create with output passed through, matching the
// tool-execution behaviour of the rest of the pipeline.
func (HdiutilImager) Create(ctx context.Context, srcDir, volName, outPath string) error {
	cmd := exec.CommandContext(ctx, "hdiutil", "create",
		"-volname", volName,
		"-srcfolder", srcDir,
		"-ov",
		"-format", "UDZO",
		outPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hdiutil create failed: %w", err)
	}
	return nil
}

// WriteDiskImage produces <outName>.dmg in the current working directory
// from the staged app bundle. Only meaningful for the app layout.
func WriteDiskImage(ctx context.Context, imager DiskImager, stagingDir, volName, outName string) (string, error) {
	tmpDir, err := os.MkdirTemp("", filepath.Base(outName)+"-dmg-*")
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrArchiveFailed)
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, outName+".dmg")
	if err := imager.Create(ctx, stagingDir, volName, tmpPath); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrArchiveFailed)
	}

	out := outName + ".dmg"
	if err := xos.MoveFile(tmpPath, out); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrArchiveFailed)
	}
	return out, nil
}
