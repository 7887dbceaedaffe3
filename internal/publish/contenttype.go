package publish

import (
	"path"
	"strings"
)

// WasmContentType is the MIME type browsers require for streaming WASM
// compilation. Stores commonly mislabel .wasm as application/octet-stream,
// which breaks WebAssembly.instantiateStreaming.
const WasmContentType = "application/wasm"

// ContentTypeRules maps a lowercase file extension (with leading dot) to
// the MIME type set at upload time. Extensions without a rule are left to
// the store's own inference.
type ContentTypeRules map[string]string

// DefaultContentTypeRules returns the rule set used for web deployments.
// Only .wasm needs forcing; everything else the store infers correctly.
func DefaultContentTypeRules() ContentTypeRules {
	return ContentTypeRules{
		".wasm": WasmContentType,
	}
}

// For returns the content type for a filename, or "" when the store's
// default applies.
func (r ContentTypeRules) For(filename string) string {
	return r[strings.ToLower(path.Ext(filename))]
}
