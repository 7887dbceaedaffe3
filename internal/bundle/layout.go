// Package bundle stages the contents of one distributable artifact into a
// temporary directory tree, ready for compression.
package bundle

import (
	"fmt"
	"path/filepath"

	"github.com/gridbugs/slime99-release/pkg/xos"
)

// Layout describes the on-disk shape of a staged bundle before compression.
// Every layout roots at a single named top-level directory so extraction
// never collides with neighbouring files.
type Layout interface {
	// Root is the top-level directory name inside the staging directory.
	Root() string
	// BinaryDir is where staged files land, relative to the staging directory.
	BinaryDir() string
	// Finish applies layout-specific extras after all files are staged.
	Finish(stagingDir string) error
}

// FlatLayout places all files directly under <Name>/. Used for the Linux
// and Windows archives.
type FlatLayout struct {
	Name string
}

func (l FlatLayout) Root() string      { return l.Name }
func (l FlatLayout) BinaryDir() string { return l.Name }

func (l FlatLayout) Finish(stagingDir string) error { return nil }

// AppLayout places files under <AppName>.app/Contents/MacOS/ and decorates
// the bundle root for disk-image drag-install.
type AppLayout struct {
	AppName string
	// MainBinary is the executable the launcher shim hands off to.
	MainBinary string
}

func (l AppLayout) Root() string { return l.AppName + ".app" }

func (l AppLayout) BinaryDir() string {
	return filepath.Join(l.Root(), "Contents", "MacOS")
}

// launcherShim is installed next to the main executable and declared as the
// bundle's executable. Launching the raw binary directly from a
// double-clicked bundle fails silently on some desktops; running it through
// a shell that first enters the binary's own directory works. Empirical
// workaround, root cause unknown.
const launcherShim = `#!/bin/sh
cd "$(dirname "$0")"
exec ./%s
`

const infoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>%s</string>
	<key>CFBundleExecutable</key>
	<string>run.sh</string>
	<key>CFBundlePackageType</key>
	<string>APPL</string>
	<key>CFBundleIdentifier</key>
	<string>org.gridbugs.%s</string>
</dict>
</plist>
`

// Finish writes the launcher shim and Info.plist, and links /Applications
// alongside the .app so the mounted disk image offers drag-install.
func (l AppLayout) Finish(stagingDir string) error {
	binDir := filepath.Join(stagingDir, l.BinaryDir())

	shim := fmt.Sprintf(launcherShim, l.MainBinary)
	if err := xos.WriteFile(filepath.Join(binDir, "run.sh"), []byte(shim), 0o755); err != nil {
		return fmt.Errorf("failed to write launcher shim: %w", err)
	}

	plist := fmt.Sprintf(infoPlist, l.AppName, l.AppName)
	plistPath := filepath.Join(stagingDir, l.Root(), "Contents", "Info.plist")
	if err := xos.WriteFile(plistPath, []byte(plist), 0o644); err != nil {
		return fmt.Errorf("failed to write Info.plist: %w", err)
	}

	if err := xos.Symlink("/Applications", filepath.Join(stagingDir, "Applications")); err != nil {
		return fmt.Errorf("failed to create Applications symlink: %w", err)
	}
	return nil
}
