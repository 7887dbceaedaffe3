// Package artifact resolves the filesystem paths of precompiled build
// outputs that the packaging steps consume. It performs lookups only and
// never touches the files it finds.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound reports a required build artifact missing from the compiled
// output tree. Operators fix this by re-running the build step; the
// packaging pipeline never falls back to another mode's output.
var ErrNotFound = errors.New("artifact not found")

// Mode selects which compiled-output directory tree artifacts are sourced
// from.
type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

// ParseMode validates a build mode string. Anything other than the two
// known modes is rejected outright.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDebug, ModeRelease:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid build mode: %q (must be debug or release)", s)
	}
}

// Entry describes one file that belongs in a bundle: where it is found
// relative to the mode directory, what it is named inside the bundle, and
// whether its absence fails the run.
type Entry struct {
	Source   string
	Dest     string
	Required bool
}

// Spec is the named list of entries staged into a bundle for one target
// platform.
type Spec struct {
	Name    string
	Entries []Entry
}

// LinuxSpec lists the binaries shipped in the Linux archive. The terminal
// frontend is an alternate rendering backend and is bundled only when the
// build produced it.
func LinuxSpec(project string) Spec {
	return Spec{
		Name: project + "-linux",
		Entries: []Entry{
			{Source: project + "_wgpu", Dest: project, Required: true},
			{Source: project + "_ansi_terminal", Dest: project + "_terminal", Required: false},
		},
	}
}

// WindowsSpec lists the binaries shipped in the Windows archive.
func WindowsSpec(project string) Spec {
	return Spec{
		Name: project + "-windows",
		Entries: []Entry{
			{Source: project + "_wgpu.exe", Dest: project + ".exe", Required: true},
			{Source: project + "_ansi_terminal.exe", Dest: project + "_terminal.exe", Required: false},
		},
	}
}

// MacSpec lists the binaries staged into the macOS app bundle.
func MacSpec(project string) Spec {
	return Spec{
		Name: project + "-macos",
		Entries: []Entry{
			{Source: project + "_wgpu", Dest: project, Required: true},
		},
	}
}

// Locator resolves artifact names against <root>/<targetDir>/<mode>/.
type Locator struct {
	root      string
	targetDir string
}

// NewLocator creates a locator rooted at the project directory.
func NewLocator(root, targetDir string) *Locator {
	return &Locator{root: root, targetDir: targetDir}
}

// ModeDir returns the compiled-output directory for a mode, failing if the
// directory does not exist. A missing mode directory means the build step
// was never run for that mode.
func (l *Locator) ModeDir(mode Mode) (string, error) {
	dir := filepath.Join(l.root, l.targetDir, string(mode))
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("build output directory %s: %w", dir, ErrNotFound)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("build output path %s is not a directory: %w", dir, ErrNotFound)
	}
	return dir, nil
}

// Locate resolves a required artifact to an absolute path.
func (l *Locator) Locate(mode Mode, name string) (string, error) {
	dir, err := l.ModeDir(mode)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s (mode %s): %w", name, mode, ErrNotFound)
	}
	return path, nil
}

// LocateOptional resolves an optional artifact. Absence is reported as an
// empty path, not an error.
func (l *Locator) LocateOptional(mode Mode, name string) (string, error) {
	dir, err := l.ModeDir(mode)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}
