//go:build !windows
// +build !windows

// Package xos provides cross-platform atomic file operations.
// It uses atomic rename operations to prevent half-written files from
// surviving an interrupted packaging run.
package xos

import (
	"fmt"
	"io"
	"os"

	"github.com/google/renameio/v2"
)

// WriteFile writes data to the named file atomically using rename.
// If the file does not exist, WriteFile creates it with permissions perm;
// otherwise WriteFile truncates it before writing.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filename, data, perm)
}

// Symlink creates a symbolic link atomically, replacing any existing link.
func Symlink(oldname, newname string) error {
	return renameio.Symlink(oldname, newname)
}

// CopyFile copies src to dst, preserving the source's permission bits.
// Compiled game binaries pass through here, so losing the exec bit would
// produce bundles that extract but do not run.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	t, err := renameio.TempFile("", dst)
	if err != nil {
		return err
	}
	defer t.Cleanup()

	if _, err := io.Copy(t, in); err != nil {
		return err
	}
	if err := t.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	return t.CloseAtomicallyReplace()
}

// MoveFile moves src to dst. It tries a plain rename first and falls back
// to copy+remove when src and dst live on different filesystems, which is
// the common case when moving an artifact out of the system temp directory
// into the working directory.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return fmt.Errorf("move %s -> %s: %w", src, dst, err)
	}
	return os.Remove(src)
}
