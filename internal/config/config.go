package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up at the project root.
const FileName = "release.yaml"

// Config represents the release.yaml configuration file.
type Config struct {
	// Project configuration
	Project ProjectConfig `yaml:"project"`

	// Build output locations
	Build BuildConfig `yaml:"build"`

	// Publishing destination
	Publish PublishConfig `yaml:"publish"`
}

// ProjectConfig holds project-level settings.
type ProjectConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
}

// BuildConfig holds the layout of the external build system's outputs.
type BuildConfig struct {
	// TargetDir is the compiled-output root, relative to the project root.
	// Binaries are expected at <TargetDir>/<mode>/<binary>.
	TargetDir string `yaml:"target_dir"`

	// WebDir is the working directory of the web build toolchain.
	WebDir string `yaml:"web_dir,omitempty"`

	// WebBuildCommand is the command run inside WebDir to produce the web
	// build output.
	WebBuildCommand []string `yaml:"web_build_command,omitempty"`

	// WebDistDir is where the web build writes its output tree, relative
	// to the project root.
	WebDistDir string `yaml:"web_dist_dir,omitempty"`

	// ExtrasDir optionally names a directory of files bundled verbatim
	// into every native archive (licenses, readme).
	ExtrasDir string `yaml:"extras_dir,omitempty"`
}

// PublishConfig holds object-store settings.
type PublishConfig struct {
	Bucket string `yaml:"bucket"`
	Branch string `yaml:"branch,omitempty"`
}

// Default returns the configuration used when a field is absent from
// release.yaml.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{Name: "slime99"},
		Build: BuildConfig{
			TargetDir:       "target",
			WebDir:          "web",
			WebBuildCommand: []string{"npm", "run", "build"},
			WebDistDir:      filepath.Join("web", "dist"),
		},
		Publish: PublishConfig{Branch: "main"},
	}
}

// Load reads and parses release.yaml from the given project root, applying
// defaults for absent fields and environment overrides on top.
func Load(root string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyEnv()

	if cfg.Project.Name == "" {
		return nil, fmt.Errorf("%s: project.name must not be empty", path)
	}
	if cfg.Build.TargetDir == "" {
		return nil, fmt.Errorf("%s: build.target_dir must not be empty", path)
	}
	return cfg, nil
}

// applyEnv overlays SLIME99_* environment variables. Flags are applied by
// the CLI layer on top of this, so precedence is flag > env > file.
func (c *Config) applyEnv() {
	if v := os.Getenv("SLIME99_BUCKET"); v != "" {
		c.Publish.Bucket = v
	}
	if v := os.Getenv("SLIME99_BRANCH"); v != "" {
		c.Publish.Branch = v
	}
}

// FindRoot walks upward from the current directory looking for release.yaml.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("not in a release workspace (no %s found)", FileName)
}
