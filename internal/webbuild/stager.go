// Package webbuild drives the external web toolchain and rearranges its
// output into the branch-qualified tree uploaded to the object store.
package webbuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gridbugs/slime99-release/internal/archive"
	"github.com/gridbugs/slime99-release/pkg/xos"
)

// ErrBuildFailed reports a nonzero exit from the web build toolchain.
var ErrBuildFailed = errors.New("web build failed")

// Builder produces a fresh web build output tree. Injected so the stager
// is testable without a real toolchain.
type Builder interface {
	Build(ctx context.Context) error
}

// ExecBuilder runs the configured build command inside the web directory,
// output passed through.
type ExecBuilder struct {
	Dir     string
	Command []string
}

func (b ExecBuilder) Build(ctx context.Context) error {
	if len(b.Command) == 0 {
		return fmt.Errorf("web build command not configured")
	}
	cmd := exec.CommandContext(ctx, b.Command[0], b.Command[1:]...)
	cmd.Dir = b.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", b.Command[0], err)
	}
	return nil
}

// Stager assembles the web deployment bundle.
type Stager struct {
	project string
	distDir string
	builder Builder
}

// NewStager creates a stager. distDir is where the builder writes its
// output tree.
func NewStager(project, distDir string, builder Builder) *Stager {
	return &Stager{project: project, distDir: distDir, builder: builder}
}

// Stage runs the web build and relocates its output so every path sits
// under <project>/<branch>/, then compresses the tree into <project>.zip in
// the working directory. The branch path segment keeps deployments of
// different branches disjoint under one object-store prefix. The staging
// tree is removed before Stage returns, on failure paths included.
func (s *Stager) Stage(ctx context.Context, branch string) (string, error) {
	if branch == "" {
		return "", fmt.Errorf("branch must not be empty: %w", ErrBuildFailed)
	}

	if err := s.builder.Build(ctx); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrBuildFailed)
	}
	if _, err := os.Stat(s.distDir); err != nil {
		return "", fmt.Errorf("build produced no output at %s: %w", s.distDir, ErrBuildFailed)
	}

	staging, err := os.MkdirTemp("", s.project+"-web-*")
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrBuildFailed)
	}
	defer os.RemoveAll(staging)

	dest := filepath.Join(staging, s.project, branch)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrBuildFailed)
	}
	if err := copyTree(s.distDir, dest); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrBuildFailed)
	}

	return archive.WriteZip(staging, s.project)
}

// copyTree replicates the build output under the branch-qualified staging
// path. The original dist tree is left in place for the per-file uploads
// that follow.
func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return xos.CopyFile(path, target)
	})
}
