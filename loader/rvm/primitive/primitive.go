// Package primitive defines the closed set of parametric solids of the RVM
// format and decodes their fixed-layout big-endian records.
package primitive

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	cadimport "github.com/raw-bytes/cad-import"
)

// Primitive is one of the eleven parametric solids of the format. The set is
// closed; consumers dispatch with an exhaustive type switch.
type Primitive interface {
	// Name returns the name of the primitive kind.
	Name() string

	isPrimitive()
}

// Type codes as stored in PRIM records.
const (
	TypePyramid          = 1
	TypeBox              = 2
	TypeRectangularTorus = 3
	TypeCircularTorus    = 4
	TypeEllipticalDish   = 5
	TypeSphericalDish    = 6
	TypeSnout            = 7
	TypeCylinder         = 8
	TypeSphere           = 9
	TypeLine             = 10
	TypePolygons         = 11
)

// Decode reads the payload for the given primitive type code.
func Decode(r io.Reader, primitiveType uint32) (Primitive, error) {
	switch primitiveType {
	case TypePyramid:
		return decodePyramid(r)
	case TypeBox:
		return decodeBox(r)
	case TypeRectangularTorus:
		return decodeRectangularTorus(r)
	case TypeCircularTorus:
		return decodeCircularTorus(r)
	case TypeEllipticalDish:
		return decodeEllipticalDish(r)
	case TypeSphericalDish:
		return decodeSphericalDish(r)
	case TypeSnout:
		return decodeSnout(r)
	case TypeCylinder:
		return decodeCylinder(r)
	case TypeSphere:
		return decodeSphere(r)
	case TypeLine:
		return decodeLine(r)
	case TypePolygons:
		return decodePolygons(r)
	default:
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "unknown primitive type: %d", primitiveType)
	}
}

func readFloats(r io.Reader, dst []float32) error {
	buf := make([]byte, len(dst)*4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return cadimport.WrapError(cadimport.KindIO, err, "failed to read float record")
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.BigEndian.Uint32(buf[i*4:]))
	}
	return nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, cadimport.WrapError(cadimport.KindIO, err, "failed to read u32")
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// Box is a box whose center is at the origin with the given size along the
// x, y and z axes in millimeters.
type Box struct {
	SizeX, SizeY, SizeZ float32
}

func (*Box) Name() string { return "Box" }
func (*Box) isPrimitive() {}

func decodeBox(r io.Reader) (*Box, error) {
	var f [3]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &Box{SizeX: f[0], SizeY: f[1], SizeZ: f[2]}, nil
}

// Pyramid is a frustum defined by a bottom and top rectangle, an offset of the
// top against the bottom and a height.
type Pyramid struct {
	XBottom, YBottom float32
	XTop, YTop       float32
	XOffset, YOffset float32
	Height           float32
}

func (*Pyramid) Name() string { return "Pyramid" }
func (*Pyramid) isPrimitive() {}

func decodePyramid(r io.Reader) (*Pyramid, error) {
	var f [7]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &Pyramid{
		XBottom: f[0], YBottom: f[1],
		XTop: f[2], YTop: f[3],
		XOffset: f[4], YOffset: f[5],
		Height: f[6],
	}, nil
}

// RectangularTorus is a torus segment with a rectangular cross section.
type RectangularTorus struct {
	RInside, ROutside float32
	Height            float32
	Angle             float32
}

func (*RectangularTorus) Name() string { return "RectangularTorus" }
func (*RectangularTorus) isPrimitive() {}

func decodeRectangularTorus(r io.Reader) (*RectangularTorus, error) {
	var f [4]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &RectangularTorus{RInside: f[0], ROutside: f[1], Height: f[2], Angle: f[3]}, nil
}

// CircularTorus is a torus segment with a circular cross section.
type CircularTorus struct {
	Offset float32
	Radius float32
	Angle  float32
}

func (*CircularTorus) Name() string { return "CircularTorus" }
func (*CircularTorus) isPrimitive() {}

func decodeCircularTorus(r io.Reader) (*CircularTorus, error) {
	var f [3]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &CircularTorus{Offset: f[0], Radius: f[1], Angle: f[2]}, nil
}

// EllipticalDish is a dish with an elliptical cross section.
type EllipticalDish struct {
	Diameter float32
	Radius   float32
}

func (*EllipticalDish) Name() string { return "EllipticalDish" }
func (*EllipticalDish) isPrimitive() {}

func decodeEllipticalDish(r io.Reader) (*EllipticalDish, error) {
	var f [2]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &EllipticalDish{Diameter: f[0], Radius: f[1]}, nil
}

// SphericalDish is a dish cut from a sphere.
type SphericalDish struct {
	Diameter float32
	Height   float32
}

func (*SphericalDish) Name() string { return "SphericalDish" }
func (*SphericalDish) isPrimitive() {}

func decodeSphericalDish(r io.Reader) (*SphericalDish, error) {
	var f [2]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &SphericalDish{Diameter: f[0], Height: f[1]}, nil
}

// Snout is a cone stump whose top circle may be offset and sheared.
type Snout struct {
	DBottom, DTop    float32
	Height           float32
	XOffset, YOffset float32
	XBShear, YBShear float32
	XTShear, YTShear float32
}

func (*Snout) Name() string { return "Snout" }
func (*Snout) isPrimitive() {}

func decodeSnout(r io.Reader) (*Snout, error) {
	var f [9]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &Snout{
		DBottom: f[0], DTop: f[1],
		Height:  f[2],
		XOffset: f[3], YOffset: f[4],
		XBShear: f[5], YBShear: f[6],
		XTShear: f[7], YTShear: f[8],
	}, nil
}

// Cylinder with radius and height in millimeters.
type Cylinder struct {
	Radius float32
	Height float32
}

func (*Cylinder) Name() string { return "Cylinder" }
func (*Cylinder) isPrimitive() {}

func decodeCylinder(r io.Reader) (*Cylinder, error) {
	var f [2]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &Cylinder{Radius: f[0], Height: f[1]}, nil
}

// Sphere with its diameter in millimeters.
type Sphere struct {
	Diameter float32
}

func (*Sphere) Name() string { return "Sphere" }
func (*Sphere) isPrimitive() {}

func decodeSphere(r io.Reader) (*Sphere, error) {
	var f [1]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &Sphere{Diameter: f[0]}, nil
}

// Line along the X axis defined by start and end values.
type Line struct {
	Start, End float32
}

func (*Line) Name() string { return "Line" }
func (*Line) isPrimitive() {}

func decodeLine(r io.Reader) (*Line, error) {
	var f [2]float32
	if err := readFloats(r, f[:]); err != nil {
		return nil, err
	}
	return &Line{Start: f[0], End: f[1]}, nil
}

// Vertex is a contour vertex: a position in millimeters and a normal.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// Contour is a closed loop of vertices.
type Contour struct {
	Vertices []Vertex
}

// Polygon is a facet defined by a list of contours, where the first contour is
// the outer contour and the remaining ones are holes.
type Polygon struct {
	Contours []Contour
}

// Polygons is a list of facets.
type Polygons struct {
	Polygons []Polygon
}

func (*Polygons) Name() string { return "Polygons" }
func (*Polygons) isPrimitive() {}

func decodePolygons(r io.Reader) (*Polygons, error) {
	numPolygons, err := readUint32(r)
	if err != nil {
		return nil, err
	}

	polygons := make([]Polygon, 0, numPolygons)
	for ip := uint32(0); ip < numPolygons; ip++ {
		numContours, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		if numContours == 0 {
			return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "number of contours is zero")
		}

		contours := make([]Contour, 0, numContours)
		for ic := uint32(0); ic < numContours; ic++ {
			numVertices, err := readUint32(r)
			if err != nil {
				return nil, err
			}
			if numVertices == 0 {
				return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "number of vertices is zero")
			}

			vertices := make([]Vertex, 0, numVertices)
			for iv := uint32(0); iv < numVertices; iv++ {
				var f [6]float32
				if err := readFloats(r, f[:]); err != nil {
					return nil, err
				}
				vertices = append(vertices, Vertex{
					Position: mgl32.Vec3{f[0], f[1], f[2]},
					Normal:   mgl32.Vec3{f[3], f[4], f[5]},
				})
			}
			contours = append(contours, Contour{Vertices: vertices})
		}
		polygons = append(polygons, Polygon{Contours: contours})
	}

	return &Polygons{Polygons: polygons}, nil
}
