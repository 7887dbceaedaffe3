package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gridbugs/slime99-release/internal/artifact"
	"github.com/gridbugs/slime99-release/pkg/xos"
)

// ErrCopyFailed reports a failed copy into the staging directory.
var ErrCopyFailed = errors.New("copy failed")

// Assembler copies build artifacts into a freshly created staging
// directory shaped by a Layout.
type Assembler struct {
	locator *artifact.Locator

	// extrasDir optionally names a directory whose files are bundled
	// verbatim into the binary directory (licenses, readme).
	extrasDir string
}

// NewAssembler creates an assembler. extrasDir may be empty.
func NewAssembler(locator *artifact.Locator, extrasDir string) *Assembler {
	return &Assembler{locator: locator, extrasDir: extrasDir}
}

// Assemble stages every entry of spec into a new temporary directory laid
// out per layout and returns the staging directory together with a cleanup
// function. The staging directory is never reused between runs; cleanup
// removes it entirely and is safe to call more than once. On error the
// partial staging directory has already been removed.
func (a *Assembler) Assemble(mode artifact.Mode, layout Layout, spec artifact.Spec) (string, func(), error) {
	stagingDir, err := os.MkdirTemp("", spec.Name+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(stagingDir) }

	if err := a.stage(stagingDir, mode, layout, spec); err != nil {
		cleanup()
		return "", nil, err
	}
	return stagingDir, cleanup, nil
}

func (a *Assembler) stage(stagingDir string, mode artifact.Mode, layout Layout, spec artifact.Spec) error {
	binDir := filepath.Join(stagingDir, layout.BinaryDir())
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", binDir, ErrCopyFailed)
	}

	for _, entry := range spec.Entries {
		var src string
		var err error
		if entry.Required {
			src, err = a.locator.Locate(mode, entry.Source)
		} else {
			src, err = a.locator.LocateOptional(mode, entry.Source)
		}
		if err != nil {
			return err
		}
		if src == "" {
			continue
		}
		if err := xos.CopyFile(src, filepath.Join(binDir, entry.Dest)); err != nil {
			return fmt.Errorf("%s: %v: %w", entry.Source, err, ErrCopyFailed)
		}
	}

	if err := a.stageExtras(binDir); err != nil {
		return err
	}

	if err := layout.Finish(stagingDir); err != nil {
		return fmt.Errorf("%v: %w", err, ErrCopyFailed)
	}
	return nil
}

// stageExtras copies the flat contents of the extras directory, if one is
// configured and present. A missing extras directory is not an error.
func (a *Assembler) stageExtras(binDir string) error {
	if a.extrasDir == "" {
		return nil
	}
	entries, err := os.ReadDir(a.extrasDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%s: %v: %w", a.extrasDir, err, ErrCopyFailed)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		src := filepath.Join(a.extrasDir, e.Name())
		if err := xos.CopyFile(src, filepath.Join(binDir, e.Name())); err != nil {
			return fmt.Errorf("%s: %v: %w", e.Name(), err, ErrCopyFailed)
		}
	}
	return nil
}
