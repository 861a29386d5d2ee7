// Package units provides length and angle units used across loaders and the
// tessellation engine.
package units

import "math"

// Length is a length unit expressed in meters.
type Length float64

const (
	Millimeter Length = 1e-3
	Centimeter Length = 1e-2
	Meter      Length = 1
	Kilometer  Length = 1e3

	Inch Length = 0.02539999
	Feet Length = 0.3048
	Mile Length = 1609.344
)

// InMeters returns the length in meters.
func (l Length) InMeters() float64 { return float64(l) }

// InMillimeters returns the length in millimeters.
func (l Length) InMillimeters() float64 { return float64(l) * 1e3 }

// Angle is an angle unit expressed in radians.
type Angle float64

// InRadians returns the angle in radians.
func (a Angle) InRadians() float64 { return float64(a) }

// InDegrees returns the angle in degrees.
func (a Angle) InDegrees() float64 { return float64(a) * 180 / math.Pi }
