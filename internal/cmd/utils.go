package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gridbugs/slime99-release/internal/archive"
	"github.com/gridbugs/slime99-release/internal/artifact"
	"github.com/gridbugs/slime99-release/internal/bundle"
	"github.com/gridbugs/slime99-release/internal/config"
)

// envOr reads an environment variable with a fallback, used for flag
// defaults so CI can configure runs without repeating flags.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadWorkspace locates the project root and loads release.yaml.
func loadWorkspace() (string, *config.Config, error) {
	root, err := config.FindRoot()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

// newAssembler wires the locator and extras directory from config.
func newAssembler(root string, cfg *config.Config) *bundle.Assembler {
	locator := artifact.NewLocator(root, cfg.Build.TargetDir)
	extras := ""
	if cfg.Build.ExtrasDir != "" {
		extras = filepath.Join(root, cfg.Build.ExtrasDir)
	}
	return bundle.NewAssembler(locator, extras)
}

// specForTarget maps a target platform name to its artifact spec.
func specForTarget(project, target string) (artifact.Spec, error) {
	switch target {
	case "linux":
		return artifact.LinuxSpec(project), nil
	case "windows":
		return artifact.WindowsSpec(project), nil
	case "macos":
		return artifact.MacSpec(project), nil
	default:
		return artifact.Spec{}, fmt.Errorf("invalid target: %s (must be linux, windows, or macos)", target)
	}
}

// packageZipArtifact assembles and compresses a flat-layout archive,
// returning the path of the zip in the working directory.
func packageZipArtifact(root string, cfg *config.Config, mode artifact.Mode, target, outName string) (string, error) {
	spec, err := specForTarget(cfg.Project.Name, target)
	if err != nil {
		return "", err
	}
	if target == "macos" {
		return "", fmt.Errorf("macos ships as a disk image, use package-dmg")
	}
	if outName == "" {
		outName = spec.Name
	}

	staging, cleanup, err := newAssembler(root, cfg).Assemble(mode, bundle.FlatLayout{Name: outName}, spec)
	if err != nil {
		return "", err
	}
	defer cleanup()

	return archive.WriteZip(staging, outName)
}

// packageDmgArtifact assembles the app bundle and produces the disk image.
func packageDmgArtifact(ctx context.Context, root string, cfg *config.Config, imager archive.DiskImager, mode artifact.Mode, outName string) (string, error) {
	project := cfg.Project.Name
	if outName == "" {
		outName = project
	}

	layout := bundle.AppLayout{AppName: project, MainBinary: project}
	staging, cleanup, err := newAssembler(root, cfg).Assemble(mode, layout, artifact.MacSpec(project))
	if err != nil {
		return "", err
	}
	defer cleanup()

	return archive.WriteDiskImage(ctx, imager, staging, project, outName)
}
