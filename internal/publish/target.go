package publish

import (
	"path"
	"strings"
)

// Target identifies where artifacts land in the object store.
type Target struct {
	// Project is the fixed key prefix shared by all branches.
	Project string
	// Branch isolates deployments by path segment.
	Branch string
	// Revision is the cache-busting identifier spliced into web artifact
	// names so updated builds bypass stale cached copies.
	Revision string
}

// NativeKey derives the key for a native artifact: <project>/<branch>/<filename>.
func (t Target) NativeKey(filename string) string {
	return path.Join(t.Project, t.Branch, filename)
}

// WebKey derives the key for a web artifact, qualifying the filename with
// the revision: app.wasm becomes <project>/<branch>/app.<revision>.wasm.
// Files without an extension get the revision appended as a suffix.
func (t Target) WebKey(filename string) string {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	if ext == "" {
		return path.Join(t.Project, t.Branch, base+"."+t.Revision)
	}
	return path.Join(t.Project, t.Branch, base+"."+t.Revision+ext)
}
