package tessellate

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/loader/rvm/primitive"
	"github.com/raw-bytes/cad-import/scene"
)

// tessellatePolygons triangulates every facet independently and appends the
// results to one shared buffer.
func tessellatePolygons(p *primitive.Polygons, transform mgl32.Mat3, translation mgl32.Vec3) (*scene.Mesh, error) {
	b := NewMeshBuilder()
	for i := range p.Polygons {
		tessellatePolygon(b, &p.Polygons[i])
	}
	if b.IsEmpty() {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "polygons are degenerate, no triangles produced")
	}

	if err := b.Transform(transform, translation); err != nil {
		return nil, err
	}
	return b.Mesh()
}

// tessellatePolygon projects the contours of one facet into its best-fit
// plane, runs the planar triangulation and unprojects the result at the
// plane's average depth. Contours with fewer than three vertices are skipped.
func tessellatePolygon(b *MeshBuilder, polygon *primitive.Polygon) {
	planeNormal, ok := polygonNormal(polygon)
	if !ok {
		// No usable plane fit; fall back to the z axis.
		planeNormal = mgl32.Vec3{0, 0, 1}
	}

	u, v := planeBasis(planeNormal)
	planeToSpace := mgl32.Mat3FromCols(u, v, planeNormal)
	spaceToPlane := planeToSpace.Transpose()

	// Project all non-degenerate contours into the plane. Vertex normals are
	// carried along as attributes.
	var points []mgl32.Vec2
	var normals []mgl32.Vec3
	var holeIndices []int
	minZ := float32(math.MaxFloat32)
	maxZ := float32(-math.MaxFloat32)

	for ci := range polygon.Contours {
		contour := &polygon.Contours[ci]
		if len(contour.Vertices) < 3 {
			continue
		}
		if len(points) > 0 {
			holeIndices = append(holeIndices, len(points))
		}
		for vi := range contour.Vertices {
			p := spaceToPlane.Mul3x1(contour.Vertices[vi].Position)
			if p.Z() < minZ {
				minZ = p.Z()
			}
			if p.Z() > maxZ {
				maxZ = p.Z()
			}
			points = append(points, mgl32.Vec2{p.X(), p.Y()})
			normals = append(normals, contour.Vertices[vi].Normal)
		}
	}

	// Degenerate facet without any usable contour.
	if maxZ < minZ {
		return
	}
	zCoord := (minZ + maxZ) / 2

	indices := earcut(points, holeIndices)
	if len(indices) == 0 {
		return
	}

	offset := uint32(b.Len())
	for i, p := range points {
		position := planeToSpace.Mul3x1(mgl32.Vec3{p.X(), p.Y(), zCoord})

		normal := normals[i]
		if normal.Len() > 1e-12 {
			normal = normal.Normalize()
		} else {
			normal = planeNormal
		}
		b.AddVertex(position, normal)
	}
	triangles := make([]uint32, len(indices))
	for i, idx := range indices {
		triangles[i] = offset + idx
	}
	b.AddTriangles(triangles)
}

// polygonNormal estimates the best-fit plane normal of a facet. It picks the
// bounding-box axis of largest extent, takes its min/max vertices and then
// the vertex forming the triangle of maximum area with that pair. The idea
// follows the outline algorithm of the GLU tessellator. Returns false for
// degenerate (point or collinear) input.
func polygonNormal(polygon *primitive.Polygon) (mgl32.Vec3, bool) {
	min := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max := mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	var minVerts, maxVerts [3]mgl32.Vec3

	for ci := range polygon.Contours {
		for vi := range polygon.Contours[ci].Vertices {
			pos := polygon.Contours[ci].Vertices[vi].Position
			for i := 0; i < 3; i++ {
				if pos[i] < min[i] {
					min[i] = pos[i]
					minVerts[i] = pos
				}
				if pos[i] > max[i] {
					max[i] = pos[i]
					maxVerts[i] = pos
				}
			}
		}
	}

	// The longest bounding-box axis gives two vertices separated by at least
	// 1/sqrt(3) of the maximum distance between any two vertices.
	i := 0
	if max[1]-min[1] > max[0]-min[0] {
		i = 1
	}
	if max[2]-min[2] > max[i]-min[i] {
		i = 2
	}

	// All vertices coincide.
	if min[i] >= max[i] {
		return mgl32.Vec3{}, false
	}

	// Pick the third vertex maximizing the cross-product area; the length of
	// the cross product is twice the triangle area.
	v1 := minVerts[i]
	v2 := maxVerts[i]
	d1 := v1.Sub(v2)
	var norm mgl32.Vec3
	maxLenSq := float32(0)
	for ci := range polygon.Contours {
		for vi := range polygon.Contours[ci].Vertices {
			d2 := polygon.Contours[ci].Vertices[vi].Position.Sub(v2)
			n := d1.Cross(d2)
			if lenSq := n.Dot(n); lenSq > maxLenSq {
				maxLenSq = lenSq
				norm = n
			}
		}
	}

	if maxLenSq <= 0 {
		return mgl32.Vec3{}, false
	}
	return norm.Mul(1 / float32(math.Sqrt(float64(maxLenSq)))), true
}

// planeBasis builds two axes orthogonal to the given normal, crossing with
// the coordinate axis the normal is least aligned with.
func planeBasis(normal mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	axis := 0
	if abs32(normal[1]) < abs32(normal[axis]) {
		axis = 1
	}
	if abs32(normal[2]) < abs32(normal[axis]) {
		axis = 2
	}

	var seed mgl32.Vec3
	seed[axis] = 1
	u := seed.Cross(normal).Normalize()
	v := normal.Cross(u).Normalize()
	return u, v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
