package extract

import (
	"path/filepath"
	"strings"

	"github.com/codegraph/liquidmap/internal/entity"
)

// Extractor is the common surface every language extractor implements:
// the tree-sitter-backed Python extractor and the six regex-based
// fallback extractors (TypeScript, JavaScript, Rust, C, C++, Java).
type Extractor interface {
	LanguageID() string
	Extensions() []string
	CanHandle(path string) bool
	Extract(source []byte, filePath string) []entity.Entity
}

// Registry dispatches a file path to the extractor registered for its
// extension: extension lookup, first match wins, unknown extensions are
// silently skipped rather than erroring.
type Registry struct {
	byExtension map[string]Extractor
}

// NewRegistry builds the registry with every known extractor wired in.
// Extension collisions favor whichever extractor registers first; none
// exist among the seven languages here.
func NewRegistry() *Registry {
	r := &Registry{byExtension: make(map[string]Extractor)}
	r.register(NewPythonExtractor())
	r.register(NewTypeScriptExtractor())
	r.register(NewJavaScriptExtractor())
	r.register(NewRustExtractor())
	r.register(NewCExtractor())
	r.register(NewCppExtractor())
	r.register(NewJavaExtractor())
	return r
}

func (r *Registry) register(e Extractor) {
	for _, ext := range e.Extensions() {
		if _, exists := r.byExtension[ext]; exists {
			continue
		}
		r.byExtension[ext] = e
	}
}

// For returns the extractor registered for path's extension, or nil if the
// extension is unknown (the caller skips the file rather than erroring).
func (r *Registry) For(path string) Extractor {
	ext := strings.ToLower(filepath.Ext(path))
	return r.byExtension[ext]
}

// Extract looks up path's extractor and runs it, returning nil for
// unrecognized extensions.
func (r *Registry) Extract(source []byte, path string) []entity.Entity {
	e := r.For(path)
	if e == nil {
		return nil
	}
	return e.Extract(source, path)
}
