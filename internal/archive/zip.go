// Package archive compresses a staged bundle into the final distributable
// artifact and moves it into the caller's working directory so CI finds a
// fixed, predictable filename.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gridbugs/slime99-release/pkg/xos"
)

// ErrArchiveFailed reports a failed compression step.
var ErrArchiveFailed = errors.New("archive failed")

// WriteZip compresses stagingDir into <outName>.zip in the current working
// directory. Archive member paths are relative to stagingDir, so the staged
// top-level folder name survives extraction. Member ordering follows
// directory walk order and is not guaranteed.
func WriteZip(stagingDir, outName string) (string, error) {
	// outName may be path-qualified; the temp pattern must not contain
	// path separators
	tmp, err := os.CreateTemp("", filepath.Base(outName)+"-*.zip")
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrArchiveFailed)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := writeZipTo(tmp, stagingDir); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%v: %w", err, ErrArchiveFailed)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrArchiveFailed)
	}

	out := outName + ".zip"
	if err := xos.MoveFile(tmpPath, out); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrArchiveFailed)
	}
	return out, nil
}

func writeZipTo(w io.Writer, stagingDir string) error {
	zw := zip.NewWriter(w)

	err := filepath.Walk(stagingDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(stagingDir, path)
		if err != nil {
			return err
		}

		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		hdr.Method = zip.Deflate

		f, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(f, in)
		in.Close()
		return err
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
