package loader

import (
	"math"
	"testing"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/scene"
	"github.com/raw-bytes/cad-import/units"
)

type fakeLoader struct {
	name     string
	priority uint32
	mime     string
	ext      string
}

func (f *fakeLoader) Name() string        { return f.name }
func (f *fakeLoader) Priority() uint32    { return f.priority }
func (f *fakeLoader) MimeTypes() []string { return []string{f.mime} }
func (f *fakeLoader) Extensions() map[string][]string {
	return map[string][]string{f.ext: {f.mime}}
}
func (f *fakeLoader) Load(r Resource, options *TessellationOptions) (*scene.CADData, error) {
	return nil, nil
}

func TestRegistryLookup(t *testing.T) {
	old := registry
	registry = nil
	defer func() { registry = old }()

	low := &fakeLoader{name: "low", priority: 10, mime: "model/x-test", ext: "tst"}
	high := &fakeLoader{name: "high", priority: 20, mime: "model/x-test", ext: "tst"}
	Register(low)
	Register(high)

	if l := ByMimeType("model/x-test"); l == nil || l.Name() != "high" {
		t.Errorf("ByMimeType picked %v; expected high-priority loader", l)
	}
	if l := ByExtension(".TST"); l == nil || l.Name() != "high" {
		t.Errorf("ByExtension picked %v; expected high-priority loader", l)
	}
	if l := ByMimeType("model/unknown"); l != nil {
		t.Errorf("ByMimeType for unknown type should return nil, got %v", l)
	}
	if len(List()) != 2 {
		t.Errorf("List()=%d loaders; expected 2", len(List()))
	}
}

func TestParseTessellationOptions(t *testing.T) {
	options, err := ParseTessellationOptions([]byte("max_sag_mm: 4\nmax_length_mm: 1000\nmax_angle_deg: 30\n"))
	if err != nil {
		t.Fatalf("ParseTessellationOptions failed: %v", err)
	}

	if mm := options.MaxSag.InMillimeters(); math.Abs(mm-4) > 1e-9 {
		t.Errorf("MaxSag=%vmm; expected 4mm", mm)
	}
	if options.MaxLength == nil || math.Abs(options.MaxLength.InMillimeters()-1000) > 1e-9 {
		t.Errorf("MaxLength=%v; expected 1000mm", options.MaxLength)
	}
	if options.MaxAngle == nil || math.Abs(options.MaxAngle.InDegrees()-30) > 1e-9 {
		t.Errorf("MaxAngle=%v; expected 30 degrees", options.MaxAngle)
	}
}

func TestTessellationOptionsValidate(t *testing.T) {
	options := &TessellationOptions{MaxSag: 0}
	if err := options.Validate(); err == nil {
		t.Fatalf("expected error for zero sag")
	} else if !cadimport.IsKind(err, cadimport.KindInvalidArgument) {
		t.Errorf("expected invalid-argument kind, got %v", cadimport.KindOf(err))
	}

	neg := units.Length(-1)
	options = &TessellationOptions{MaxSag: units.Millimeter, MaxLength: &neg}
	if err := options.Validate(); err == nil {
		t.Errorf("expected error for negative max length")
	}
}
