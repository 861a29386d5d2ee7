package rvm

import (
	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/scene"
)

const mimeType = "application/vnd.aveva.pdms.rvm"

// Loader reads binary RVM plant models.
type Loader struct{}

func (l *Loader) Name() string { return "AVEVA PDMS binary RVM" }

func (l *Loader) Priority() uint32 { return 1000 }

func (l *Loader) MimeTypes() []string { return []string{mimeType} }

func (l *Loader) Extensions() map[string][]string {
	return map[string][]string{"rvm": {mimeType}}
}

// Load parses the resource and returns the assembled scene.
func (l *Loader) Load(r loader.Resource, options *loader.TessellationOptions) (*scene.CADData, error) {
	if options == nil {
		options = loader.DefaultTessellationOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	in, err := r.Open()
	if err != nil {
		return nil, err
	}
	defer in.Close()

	builder := newSceneBuilder(options)
	if err := NewParser(in, builder).Parse(); err != nil {
		return nil, err
	}
	return builder.Finalize(), nil
}

func init() {
	loader.Register(&Loader{})
}
