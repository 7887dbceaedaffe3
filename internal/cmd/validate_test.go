package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbugs/slime99-release/internal/config"
)

// inWorkspace writes a release.yaml into a temp directory and chdirs into
// it so runValidate discovers it as the project root.
func inWorkspace(t *testing.T, content string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte(content), 0o644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { os.Chdir(cwd) })
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	inWorkspace(t, `
project:
  name: slime99
  version: 1.0.0
build:
  target_dir: target
  web_dir: web
  web_build_command: [npm, run, build]
  web_dist_dir: web/dist
publish:
  bucket: games-test
  branch: main
`)

	assert.NoError(t, runValidate(validateCmd, nil))
}

func TestValidateRejectsEmptyProjectName(t *testing.T) {
	inWorkspace(t, `
project:
  name: ""
`)

	err := runValidate(validateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateRejectsUnknownKey(t *testing.T) {
	inWorkspace(t, `
project:
  name: slime99
deploy:
  bucket: games-test
`)

	err := runValidate(validateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateRejectsBadBranchCharacters(t *testing.T) {
	inWorkspace(t, `
project:
  name: slime99
publish:
  branch: "feature branch"
`)

	err := runValidate(validateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateRejectsMalformedYAML(t *testing.T) {
	inWorkspace(t, "project: [unclosed")

	assert.Error(t, runValidate(validateCmd, nil))
}
