package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	cadimport "github.com/raw-bytes/cad-import"
)

// Vertices is a vertex list. A vertex is a position in space with additional
// optional attributes like normals and colors.
type Vertices struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	colors    []mgl32.Vec4
}

// NewVertices returns an empty vertex list.
func NewVertices() *Vertices {
	return &Vertices{}
}

// VerticesFromPositions returns a vertex list initialized with the given
// positions attribute.
func VerticesFromPositions(positions []mgl32.Vec3) *Vertices {
	return &Vertices{positions: positions}
}

// Len returns the number of vertices.
func (v *Vertices) Len() int { return len(v.positions) }

// SetNormals sets the normals attribute. The number of normals must match the
// number of vertices.
func (v *Vertices) SetNormals(normals []mgl32.Vec3) error {
	if len(v.positions) != len(normals) {
		return cadimport.Errorf(cadimport.KindInvalidArgument,
			"got %d vertices, but normal attribute has %d entries", len(v.positions), len(normals))
	}
	v.normals = normals
	return nil
}

// SetColors sets the colors attribute. The number of colors must match the
// number of vertices.
func (v *Vertices) SetColors(colors []mgl32.Vec4) error {
	if len(v.positions) != len(colors) {
		return cadimport.Errorf(cadimport.KindInvalidArgument,
			"got %d vertices, but color attribute has %d entries", len(v.positions), len(colors))
	}
	v.colors = colors
	return nil
}

// Positions returns the positions attribute.
func (v *Vertices) Positions() []mgl32.Vec3 { return v.positions }

// Normals returns the normals attribute or nil if not set.
func (v *Vertices) Normals() []mgl32.Vec3 { return v.normals }

// Colors returns the colors attribute or nil if not set.
func (v *Vertices) Colors() []mgl32.Vec4 { return v.colors }
