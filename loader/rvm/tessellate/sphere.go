package tessellate

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/loader/rvm/primitive"
	"github.com/raw-bytes/cad-import/scene"
)

// icosahedronVertices is the 12-vertex seed on the unit sphere.
var icosahedronVertices = [12]mgl32.Vec3{
	{0, 0.8506508, 0.5257311},
	{0, 0.8506508, -0.5257311},
	{0, -0.8506508, 0.5257311},
	{0, -0.8506508, -0.5257311},
	{0.8506508, 0.5257311, 0},
	{0.8506508, -0.5257311, 0},
	{-0.8506508, 0.5257311, 0},
	{-0.8506508, -0.5257311, 0},
	{0.5257311, 0, 0.8506508},
	{-0.5257311, 0, 0.8506508},
	{0.5257311, 0, -0.8506508},
	{-0.5257311, 0, -0.8506508},
}

// icosahedronIndices are the 20 seed faces, wound outward.
var icosahedronIndices = [60]uint32{
	1, 0, 4, 0, 1, 6, 2, 3, 5, 3, 2, 7, 4, 5, 10, 5, 4, 8, 6, 7, 9, 7, 6, 11,
	8, 9, 2, 9, 8, 0, 10, 11, 1, 11, 10, 3, 0, 8, 4, 0, 6, 9, 1, 4, 10, 1, 11,
	6, 2, 5, 8, 2, 9, 7, 3, 10, 5, 3, 7, 11,
}

// sphereTessellator subdivides the icosahedron until every triangle satisfies
// the edge-length and sag bounds. The subdivision uses an explicit work stack
// so that adversarial inputs cannot exhaust the call stack, and midpoints are
// deduplicated via an edge map so neighboring triangles share vertices.
type sphereTessellator struct {
	radiusMM      float32
	maxEdgeLength float32
	maxSagMM      float32

	// vertices on the unit sphere; scaled by the radius on finalization.
	vertices  []mgl32.Vec3
	indices   []uint32
	midpoints map[[2]uint32]uint32
}

func tessellateSphere(s *primitive.Sphere, options *loader.TessellationOptions, transform mgl32.Mat3, translation mgl32.Vec3) (*scene.Mesh, error) {
	radiusMM := s.Diameter / 2

	// Satisfying the sag bound directly per triangle makes an edge length
	// bound beyond radius and max_length unnecessary.
	maxEdge := radiusMM
	if options.MaxLength != nil {
		if l := float32(options.MaxLength.InMillimeters()); l < maxEdge {
			maxEdge = l
		}
	}
	if maxEdge <= 0 {
		maxEdge = radiusMM
	}

	t := &sphereTessellator{
		radiusMM:      radiusMM,
		maxEdgeLength: maxEdge,
		maxSagMM:      float32(options.MaxSag.InMillimeters()),
		vertices:      append([]mgl32.Vec3(nil), icosahedronVertices[:]...),
		midpoints:     make(map[[2]uint32]uint32),
	}
	t.subdivide()

	b := NewMeshBuilderWithCapacity(len(t.vertices), len(t.indices))
	for _, v := range t.vertices {
		b.AddVertex(v.Mul(t.radiusMM), v)
	}
	b.AddTriangles(t.indices)

	if err := b.Transform(transform, translation); err != nil {
		return nil, err
	}
	return b.Mesh()
}

func (t *sphereTessellator) subdivide() {
	stack := make([][3]uint32, 0, 20)
	for i := 0; i < len(icosahedronIndices); i += 3 {
		stack = append(stack, [3]uint32{
			icosahedronIndices[i],
			icosahedronIndices[i+1],
			icosahedronIndices[i+2],
		})
	}

	// Degenerate radius: keep the seed, nothing to refine.
	refine := t.radiusMM > 0

	for len(stack) > 0 {
		tri := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if refine && t.needsSplit(tri) {
			m01 := t.midpoint(tri[0], tri[1])
			m12 := t.midpoint(tri[1], tri[2])
			m20 := t.midpoint(tri[2], tri[0])

			stack = append(stack,
				[3]uint32{tri[0], m01, m20},
				[3]uint32{tri[1], m12, m01},
				[3]uint32{tri[2], m20, m12},
				[3]uint32{m01, m12, m20},
			)
			continue
		}

		t.indices = append(t.indices, tri[0], tri[1], tri[2])
	}
}

// needsSplit reports whether the triangle violates the edge-length or sag
// bound. All metrics are evaluated at the final radius.
func (t *sphereTessellator) needsSplit(tri [3]uint32) bool {
	p0 := t.vertices[tri[0]]
	p1 := t.vertices[tri[1]]
	p2 := t.vertices[tri[2]]

	longest := p0.Sub(p1).Len()
	if l := p1.Sub(p2).Len(); l > longest {
		longest = l
	}
	if l := p2.Sub(p0).Len(); l > longest {
		longest = l
	}
	if longest*t.radiusMM > t.maxEdgeLength {
		return true
	}

	// The centroid of a unit-sphere triangle lies inside the sphere; its
	// distance to the surface is the sag of the facet.
	centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3.0)
	sag := t.radiusMM * (1 - centroid.Len())
	return sag > t.maxSagMM
}

// midpoint returns the index of the reprojected midpoint of the edge a-b,
// creating it on first use.
func (t *sphereTessellator) midpoint(a, b uint32) uint32 {
	key := [2]uint32{a, b}
	if a > b {
		key = [2]uint32{b, a}
	}
	if idx, ok := t.midpoints[key]; ok {
		return idx
	}

	m := t.vertices[a].Add(t.vertices[b]).Mul(0.5).Normalize()
	idx := uint32(len(t.vertices))
	t.vertices = append(t.vertices, m)
	t.midpoints[key] = idx
	return idx
}
