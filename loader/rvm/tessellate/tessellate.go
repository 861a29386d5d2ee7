package tessellate

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/loader/rvm/primitive"
	"github.com/raw-bytes/cad-import/scene"
)

// ErrUnsupported is returned for primitive kinds that have no tessellation
// algorithm. Callers are expected to skip such primitives and continue.
var ErrUnsupported = errors.New("primitive kind is not supported for tessellation")

// Tessellate converts the given primitive into a triangle mesh. Positions are
// mapped by transform*p+translation, normals by the inverse-transpose of the
// transform.
func Tessellate(p primitive.Primitive, options *loader.TessellationOptions, transform mgl32.Mat3, translation mgl32.Vec3) (*scene.Mesh, error) {
	switch s := p.(type) {
	case *primitive.Box:
		return tessellateBox(s, transform, translation)
	case *primitive.Pyramid:
		return tessellatePyramid(s, transform, translation)
	case *primitive.Cylinder:
		return tessellateCylinder(s, options, transform, translation)
	case *primitive.Sphere:
		return tessellateSphere(s, options, transform, translation)
	case *primitive.Polygons:
		return tessellatePolygons(s, transform, translation)
	default:
		return nil, errors.Wrap(ErrUnsupported, p.Name())
	}
}

// boxIndices are the triangle indices of a tessellated box, two triangles for
// each of the six faces.
var boxIndices = []uint32{
	0, 1, 2, 2, 3, 0, // front
	4, 5, 6, 6, 7, 4, // back
	8, 9, 10, 10, 11, 8, // left
	12, 13, 14, 14, 15, 12, // right
	16, 17, 18, 18, 19, 16, // top
	20, 21, 22, 22, 23, 20, // bottom
}

// tessellateBox emits 24 vertices and 36 indices. Each face owns its four
// vertices so that normals are not shared across edges and the edges stay
// sharp.
func tessellateBox(box *primitive.Box, transform mgl32.Mat3, translation mgl32.Vec3) (*scene.Mesh, error) {
	b := NewMeshBuilderWithCapacity(24, 36)

	dx := box.SizeX / 2
	dy := box.SizeY / 2
	dz := box.SizeZ / 2

	positions := []mgl32.Vec3{
		// front
		{dx, dy, dz}, {-dx, dy, dz}, {-dx, -dy, dz}, {dx, -dy, dz},
		// back
		{-dx, dy, -dz}, {dx, dy, -dz}, {dx, -dy, -dz}, {-dx, -dy, -dz},
		// left
		{-dx, dy, dz}, {-dx, dy, -dz}, {-dx, -dy, -dz}, {-dx, -dy, dz},
		// right
		{dx, dy, -dz}, {dx, dy, dz}, {dx, -dy, dz}, {dx, -dy, -dz},
		// top
		{dx, dy, -dz}, {-dx, dy, -dz}, {-dx, dy, dz}, {dx, dy, dz},
		// bottom
		{-dx, -dy, -dz}, {dx, -dy, -dz}, {dx, -dy, dz}, {-dx, -dy, dz},
	}

	normals := []mgl32.Vec3{
		{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		{0, 0, -1}, {0, 0, -1}, {0, 0, -1}, {0, 0, -1},
		{-1, 0, 0}, {-1, 0, 0}, {-1, 0, 0}, {-1, 0, 0},
		{1, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 0, 0},
		{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
		{0, -1, 0}, {0, -1, 0}, {0, -1, 0}, {0, -1, 0},
	}

	b.AddVertices(positions, normals)
	b.AddTriangles(boxIndices)
	if err := b.Transform(transform, translation); err != nil {
		return nil, err
	}
	return b.Mesh()
}

// pyramidBasePositions is the unit-cube corner template for the pyramid. The
// first four corners form the bottom rectangle, the last four the top.
var pyramidBasePositions = [8]mgl32.Vec3{
	{0.5, 0.5, -0.5}, {0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5},
	{0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5},
}

// tessellatePyramid scales and offsets the corner template per the bottom/top
// rectangles. Degenerate triangles collapse when corners coincide, so a
// pyramid with a sharp top or zero-size rectangles loses the corresponding
// faces. Normals are computed from the actual triangle edges rather than the
// template so that skewed pyramids get correct shading.
func tessellatePyramid(p *primitive.Pyramid, transform mgl32.Mat3, translation mgl32.Vec3) (*scene.Mesh, error) {
	b := NewMeshBuilder()

	var points [8]mgl32.Vec3
	for i, base := range pyramidBasePositions {
		var x, y float32
		if i < 4 {
			x = base.X()*p.XBottom - p.XOffset*0.5
			y = base.Y()*p.YBottom - p.YOffset*0.5
		} else {
			x = base.X()*p.XTop + p.XOffset*0.5
			y = base.Y()*p.YTop + p.YOffset*0.5
		}
		points[i] = mgl32.Vec3{x, y, base.Z() * p.Height}
	}

	// Sides: each is up to two triangles, skipped when corners coincide.
	for i0 := 0; i0 < 4; i0++ {
		i1 := (i0 + 1) % 4
		j0 := i0 + 4
		j1 := i1 + 4

		p0 := points[i0]
		p1 := points[i1]
		p2 := points[j0]
		p3 := points[j1]

		t0 := p0 != p1 && p1 != p2 && p0 != p2
		t1 := p1 != p3 && p3 != p2 && p1 != p2

		if t0 {
			normal := p2.Sub(p0).Cross(p1.Sub(p0)).Normalize()
			offset := b.AddVertices([]mgl32.Vec3{p0, p1, p2}, []mgl32.Vec3{normal, normal, normal})
			b.AddTriangle(offset, offset+2, offset+1)
		}
		if t1 {
			normal := p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
			var offset uint32
			if t0 {
				offset = b.AddVertex(p3, normal) - 2
			} else {
				offset = b.AddVertices([]mgl32.Vec3{p1, p2, p3}, []mgl32.Vec3{normal, normal, normal})
			}
			b.AddTriangle(offset, offset+1, offset+2)
		}
	}

	// Bottom cap.
	if points[0] != points[1] && points[1] != points[2] && points[0] != points[2] {
		n0 := points[1].Sub(points[0]).Cross(points[2].Sub(points[0])).Normalize()
		n1 := points[2].Sub(points[0]).Cross(points[3].Sub(points[0])).Normalize()
		normal := n0.Add(n1).Normalize()

		offset := b.AddVertices(
			[]mgl32.Vec3{points[0], points[1], points[2], points[3]},
			[]mgl32.Vec3{normal, normal, normal, normal},
		)
		b.AddTriangle(offset, offset+1, offset+2)
		b.AddTriangle(offset, offset+2, offset+3)
	}

	// Top cap.
	if points[4] != points[5] && points[5] != points[6] && points[4] != points[6] {
		n0 := points[6].Sub(points[4]).Cross(points[5].Sub(points[4])).Normalize()
		n1 := points[7].Sub(points[4]).Cross(points[6].Sub(points[4])).Normalize()
		normal := n0.Add(n1).Normalize()

		offset := b.AddVertices(
			[]mgl32.Vec3{points[4], points[5], points[6], points[7]},
			[]mgl32.Vec3{normal, normal, normal, normal},
		)
		b.AddTriangle(offset, offset+2, offset+1)
		b.AddTriangle(offset, offset+3, offset+2)
	}

	if b.IsEmpty() {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "pyramid is fully degenerate")
	}

	if err := b.Transform(transform, translation); err != nil {
		return nil, err
	}
	return b.Mesh()
}
