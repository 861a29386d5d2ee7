// Package loader contains the loader registry, the loader interface and the
// resource abstraction all format loaders are built on.
package loader

import (
	"sort"
	"strings"

	"github.com/raw-bytes/cad-import/scene"
)

// Loader reads one file format into the scene structure.
type Loader interface {
	// Name returns the human readable name of the loader.
	Name() string

	// Priority of the loader. The higher the priority the more likely the
	// loader is chosen if multiple loaders match a resource.
	Priority() uint32

	// MimeTypes returns the supported mime types of the format.
	MimeTypes() []string

	// Extensions maps lower-case file extensions onto mime types.
	Extensions() map[string][]string

	// Load reads the CAD data from the given resource.
	Load(r Resource, options *TessellationOptions) (*scene.CADData, error)
}

var registry []Loader

// Register adds a loader to the registry. Format packages call this from
// their init function.
func Register(l Loader) {
	registry = append(registry, l)
	sort.SliceStable(registry, func(i, j int) bool {
		return registry[i].Priority() > registry[j].Priority()
	})
}

// List returns all registered loaders ordered by descending priority.
func List() []Loader {
	return registry
}

// ByMimeType returns the highest-priority loader supporting the given mime
// type or nil.
func ByMimeType(mimeType string) Loader {
	for _, l := range registry {
		for _, m := range l.MimeTypes() {
			if m == mimeType {
				return l
			}
		}
	}
	return nil
}

// ByExtension returns the highest-priority loader handling the given file
// extension (without the leading dot) or nil.
func ByExtension(ext string) Loader {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, l := range registry {
		if _, ok := l.Extensions()[ext]; ok {
			return l
		}
	}
	return nil
}
