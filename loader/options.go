package loader

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/units"
)

// TessellationOptions bound the geometric error of tessellated parametric
// surfaces. MaxSag is always required; a nil optional bound means the metric
// is unconstrained. A hard floor of 4 circle segments and 2 height/radial
// segments applies regardless of the bounds.
type TessellationOptions struct {
	// MaxSag is the maximum distance between a facet and the true surface.
	MaxSag units.Length

	// MaxLength is the maximum edge length of a facet, if set.
	MaxLength *units.Length

	// MaxAngle is the maximum angle between adjacent facet normals, if set.
	MaxAngle *units.Angle
}

// DefaultTessellationOptions returns options with a 1mm sag bound and no
// further constraints.
func DefaultTessellationOptions() *TessellationOptions {
	return &TessellationOptions{MaxSag: units.Millimeter}
}

// Validate checks the option values.
func (t *TessellationOptions) Validate() error {
	if t.MaxSag <= 0 {
		return cadimport.Errorf(cadimport.KindInvalidArgument, "max sag must be positive, got %v", t.MaxSag)
	}
	if t.MaxLength != nil && *t.MaxLength <= 0 {
		return cadimport.Errorf(cadimport.KindInvalidArgument, "max length must be positive, got %v", *t.MaxLength)
	}
	if t.MaxAngle != nil && *t.MaxAngle <= 0 {
		return cadimport.Errorf(cadimport.KindInvalidArgument, "max angle must be positive, got %v", *t.MaxAngle)
	}
	return nil
}

type optionsFile struct {
	MaxSagMM    *float64 `yaml:"max_sag_mm"`
	MaxLengthMM *float64 `yaml:"max_length_mm"`
	MaxAngleDeg *float64 `yaml:"max_angle_deg"`
}

// LoadTessellationOptions reads tessellation options from a YAML file with
// millimeter/degree keys (max_sag_mm, max_length_mm, max_angle_deg).
func LoadTessellationOptions(path string) (*TessellationOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cadimport.WrapError(cadimport.KindIO, err, "failed to read options file")
	}
	return ParseTessellationOptions(data)
}

// ParseTessellationOptions parses YAML option data.
func ParseTessellationOptions(data []byte) (*TessellationOptions, error) {
	var f optionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, cadimport.WrapError(cadimport.KindInvalidArgument, err, "failed to parse options file")
	}

	options := DefaultTessellationOptions()
	if f.MaxSagMM != nil {
		options.MaxSag = units.Length(*f.MaxSagMM) * units.Millimeter
	}
	if f.MaxLengthMM != nil {
		l := units.Length(*f.MaxLengthMM) * units.Millimeter
		options.MaxLength = &l
	}
	if f.MaxAngleDeg != nil {
		a := units.Angle(*f.MaxAngleDeg * math.Pi / 180)
		options.MaxAngle = &a
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}
