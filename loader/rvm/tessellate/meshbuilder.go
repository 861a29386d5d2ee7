// Package tessellate converts the parametric solids of the RVM format into
// triangle meshes whose deviation from the true surface is bounded by the
// caller-supplied tessellation options.
package tessellate

import (
	"github.com/go-gl/mathgl/mgl32"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/scene"
)

// MeshBuilder accumulates positions, normals and triangle indices and turns
// them into a mesh with one final transform step. Index bounds are checked on
// insertion; a violation is a programming error and panics.
type MeshBuilder struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	indices   []uint32
}

func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{}
}

func NewMeshBuilderWithCapacity(numVertices, numIndices int) *MeshBuilder {
	return &MeshBuilder{
		positions: make([]mgl32.Vec3, 0, numVertices),
		normals:   make([]mgl32.Vec3, 0, numVertices),
		indices:   make([]uint32, 0, numIndices),
	}
}

// AddVertex appends one vertex and returns its index.
func (b *MeshBuilder) AddVertex(position, normal mgl32.Vec3) uint32 {
	index := uint32(len(b.positions))
	b.positions = append(b.positions, position)
	b.normals = append(b.normals, normal)
	return index
}

// AddVertices appends the given vertices and returns the index of the first
// one. Positions and normals must have the same length.
func (b *MeshBuilder) AddVertices(positions, normals []mgl32.Vec3) uint32 {
	if len(positions) != len(normals) {
		panic("mesh builder: positions and normals length mismatch")
	}
	offset := uint32(len(b.positions))
	b.positions = append(b.positions, positions...)
	b.normals = append(b.normals, normals...)
	return offset
}

// AddTriangle appends one triangle.
func (b *MeshBuilder) AddTriangle(i0, i1, i2 uint32) {
	n := uint32(len(b.positions))
	if i0 >= n || i1 >= n || i2 >= n {
		panic("mesh builder: triangle index out of bounds")
	}
	b.indices = append(b.indices, i0, i1, i2)
}

// AddTriangles appends the given triangle indices, three per triangle.
func (b *MeshBuilder) AddTriangles(indices []uint32) {
	if len(indices)%3 != 0 {
		panic("mesh builder: triangle index count not divisible by 3")
	}
	n := uint32(len(b.positions))
	for _, i := range indices {
		if i >= n {
			panic("mesh builder: triangle index out of bounds")
		}
	}
	b.indices = append(b.indices, indices...)
}

// Transform maps all positions by transform*p+translation and all normals by
// the inverse-transpose of the transform, renormalized. A singular transform
// is reported as a format error so the caller can skip the primitive.
func (b *MeshBuilder) Transform(transform mgl32.Mat3, translation mgl32.Vec3) error {
	if transform.Det() == 0 {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "primitive transform is singular")
	}
	normalMat := transform.Transpose().Inv()

	for i, p := range b.positions {
		b.positions[i] = transform.Mul3x1(p).Add(translation)
	}
	for i, n := range b.normals {
		b.normals[i] = normalMat.Mul3x1(n).Normalize()
	}
	return nil
}

// Mesh finalizes the builder into a triangle mesh.
func (b *MeshBuilder) Mesh() (*scene.Mesh, error) {
	vertices := scene.VerticesFromPositions(b.positions)
	if err := vertices.SetNormals(b.normals); err != nil {
		return nil, err
	}
	primitives, err := scene.NewPrimitives(b.indices, scene.Triangles)
	if err != nil {
		return nil, err
	}
	return scene.NewMesh(vertices, primitives)
}

// Len returns the number of vertices added so far.
func (b *MeshBuilder) Len() int { return len(b.positions) }

// IsEmpty reports whether nothing was added. Degenerate solids collapse to an
// empty builder; tessellators check this before finalizing.
func (b *MeshBuilder) IsEmpty() bool {
	return len(b.positions) == 0 && len(b.normals) == 0 && len(b.indices) == 0
}
