package scene

import (
	cadimport "github.com/raw-bytes/cad-import"
)

// Mesh is a tessellated geometry consisting of vertices and primitives.
// Every index of the primitives references an existing vertex; the invariant
// is enforced at construction.
type Mesh struct {
	vertices   *Vertices
	primitives *Primitives
}

// NewMesh creates a mesh from the given vertices and primitives. An index
// referencing a vertex beyond the vertex list is a fatal indices error.
func NewMesh(vertices *Vertices, primitives *Primitives) (*Mesh, error) {
	if max, ok := primitives.MaxIndex(); ok && int(max) >= vertices.Len() {
		return nil, cadimport.Errorf(cadimport.KindIndices,
			"indices reference vertex %d, but only got %d vertices", max, vertices.Len())
	}
	return &Mesh{vertices: vertices, primitives: primitives}, nil
}

// Vertices returns the vertices of the mesh.
func (m *Mesh) Vertices() *Vertices { return m.vertices }

// Primitives returns the primitives of the mesh.
func (m *Mesh) Primitives() *Primitives { return m.primitives }
