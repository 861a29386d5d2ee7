package tessellate

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/loader/rvm/primitive"
	"github.com/raw-bytes/cad-import/scene"
	"github.com/raw-bytes/cad-import/units"
)

func identityTessellate(t *testing.T, p primitive.Primitive, options *loader.TessellationOptions) *scene.Mesh {
	t.Helper()
	if options == nil {
		options = loader.DefaultTessellationOptions()
	}
	mesh, err := Tessellate(p, options, mgl32.Ident3(), mgl32.Vec3{})
	if err != nil {
		t.Fatalf("Tessellate(%s) failed: %v", p.Name(), err)
	}
	return mesh
}

// forEachTriangle calls fn with the corner positions and normals of every
// triangle of the mesh.
func forEachTriangle(t *testing.T, mesh *scene.Mesh, fn func(p [3]mgl32.Vec3, n [3]mgl32.Vec3)) {
	t.Helper()
	positions := mesh.Vertices().Positions()
	normals := mesh.Vertices().Normals()
	indices := mesh.Primitives().Indices()
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		fn(
			[3]mgl32.Vec3{positions[i0], positions[i1], positions[i2]},
			[3]mgl32.Vec3{normals[i0], normals[i1], normals[i2]},
		)
	}
}

func TestTessellateBox(t *testing.T) {
	mesh := identityTessellate(t, &primitive.Box{SizeX: 2, SizeY: 2, SizeZ: 2}, nil)

	if n := mesh.Vertices().Len(); n != 24 {
		t.Errorf("box has %d vertices; expected 24", n)
	}
	if n := mesh.Primitives().NumIndices(); n != 36 {
		t.Errorf("box has %d indices; expected 36", n)
	}
	if mesh.Primitives().Type() != scene.Triangles {
		t.Errorf("box mesh has type %v; expected triangles", mesh.Primitives().Type())
	}

	var totalArea float32
	forEachTriangle(t, mesh, func(p, n [3]mgl32.Vec3) {
		a := p[1].Sub(p[0])
		b := p[2].Sub(p[0])
		cross := a.Cross(b)
		totalArea += cross.Len() / 2

		normal := cross.Normalize()
		for i := 0; i < 3; i++ {
			if n[i] != normal {
				t.Errorf("stored normal %v differs from computed %v", n[i], normal)
			}
		}
		if p[0].Dot(normal) <= 0 {
			t.Errorf("face normal %v does not point outward at %v", normal, p[0])
		}
	})

	if totalArea != 24 {
		t.Errorf("box surface area is %v; expected exactly 24", totalArea)
	}
}

func TestTessellatePyramidBoxLike(t *testing.T) {
	p := &primitive.Pyramid{XBottom: 1, YBottom: 1, XTop: 1, YTop: 1, Height: 1}
	mesh := identityTessellate(t, p, nil)

	if n := mesh.Vertices().Len(); n != 24 {
		t.Errorf("pyramid has %d vertices; expected 24", n)
	}
	if n := mesh.Primitives().NumIndices(); n != 36 {
		t.Errorf("pyramid has %d indices; expected 36", n)
	}

	var totalArea float32
	forEachTriangle(t, mesh, func(p, n [3]mgl32.Vec3) {
		cross := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		totalArea += cross.Len() / 2

		normal := cross.Normalize()
		for i := 0; i < 3; i++ {
			if math.Abs(float64(1-n[i].Dot(normal))) > 1e-6 {
				t.Errorf("stored normal %v differs from computed %v", n[i], normal)
			}
		}
		if p[0].Dot(normal) <= 0 {
			t.Errorf("face normal %v does not point outward at %v", normal, p[0])
		}
	})

	if math.Abs(float64(totalArea-6)) > 1e-5 {
		t.Errorf("surface area is %v; expected 6", totalArea)
	}
}

func TestTessellatePyramidSharpTop(t *testing.T) {
	p := &primitive.Pyramid{XBottom: 1, YBottom: 1, Height: 1}
	mesh := identityTessellate(t, p, nil)

	// The top rectangle collapses to a point: the top cap and one triangle
	// per side disappear.
	if n := mesh.Vertices().Len(); n != 16 {
		t.Errorf("pyramid has %d vertices; expected 16", n)
	}
	if n := mesh.Primitives().NumIndices(); n != 18 {
		t.Errorf("pyramid has %d indices; expected 18", n)
	}

	var totalArea float32
	forEachTriangle(t, mesh, func(p, n [3]mgl32.Vec3) {
		cross := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		totalArea += cross.Len() / 2
		if p[0].Dot(cross.Normalize()) <= 0 {
			t.Errorf("face normal does not point outward at %v", p[0])
		}
	})

	expected := 2*float32(math.Sqrt(1.25)) + 1
	if math.Abs(float64(totalArea-expected)) > 1e-5 {
		t.Errorf("surface area is %v; expected %v", totalArea, expected)
	}
}

// TestSegmentsPerCircle verifies the solver against the analytic sag, chord
// and angle of a regular n-gon over a grid of radii and bound combinations.
func TestSegmentsPerCircle(t *testing.T) {
	radii := []units.Length{1, 2, 3, 4, 5}
	maxAngles := []float64{0, 0.7, 0.2, 0.1}
	maxLengths := []float64{0, 0.1, 0.05, 0.01, 0.001}
	maxSags := []float64{0.1, 0.05, 0.01, 0.001}

	for _, r := range radii {
		for _, angle := range maxAngles {
			for _, length := range maxLengths {
				for _, sag := range maxSags {
					options := &loader.TessellationOptions{MaxSag: units.Length(sag)}
					if length > 0 {
						l := units.Length(length)
						options.MaxLength = &l
					}
					if angle > 0 {
						a := units.Angle(angle)
						options.MaxAngle = &a
					}

					n := SegmentsPerCircle(r, options)
					if n < 4 {
						t.Fatalf("segment count %d below floor of 4", n)
					}

					rm := r.InMeters()
					step := 2 * math.Pi / float64(n)

					actualSag := rm * (1 - math.Cos(step/2))
					if actualSag > sag+1e-12 {
						t.Errorf("r=%v n=%d: sag %v exceeds bound %v", r, n, actualSag, sag)
					}

					if length > 0 {
						chord := 2 * rm * math.Sin(step/2)
						if chord > length+1e-12 {
							t.Errorf("r=%v n=%d: chord %v exceeds bound %v", r, n, chord, length)
						}
					}

					if angle > 0 && step > angle+1e-12 {
						t.Errorf("r=%v n=%d: angle %v exceeds bound %v", r, n, step, angle)
					}
				}
			}
		}
	}
}

// TestCylinderOutwardNormals checks a large cylinder under tight bounds: every
// triangle must face away from the axis-centered origin.
func TestCylinderOutwardNormals(t *testing.T) {
	maxLength := 1000 * units.Millimeter
	options := &loader.TessellationOptions{
		MaxSag:    4 * units.Millimeter,
		MaxLength: &maxLength,
	}

	mesh, err := Tessellate(
		&primitive.Cylinder{Radius: 4000, Height: 7000},
		options, mgl32.Ident3(), mgl32.Vec3{},
	)
	if err != nil {
		t.Fatalf("cylinder tessellation failed: %v", err)
	}

	if mesh.Primitives().NumIndices() == 0 {
		t.Fatal("cylinder mesh has no triangles")
	}

	forEachTriangle(t, mesh, func(p, n [3]mgl32.Vec3) {
		cross := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		if cross.Normalize().Dot(p[0]) <= 0 {
			t.Fatalf("triangle (%v,%v,%v) does not face outward", p[0], p[1], p[2])
		}
	})
}

// TestSphereBounds checks that all vertices lie on the sphere and every
// triangle satisfies the sag bound.
func TestSphereBounds(t *testing.T) {
	radii := []float32{10, 500, 4000}
	for _, radius := range radii {
		options := &loader.TessellationOptions{MaxSag: 4 * units.Millimeter}

		mesh, err := Tessellate(
			&primitive.Sphere{Diameter: 2 * radius},
			options, mgl32.Ident3(), mgl32.Vec3{},
		)
		if err != nil {
			t.Fatalf("sphere tessellation failed: %v", err)
		}

		for _, p := range mesh.Vertices().Positions() {
			if math.Abs(float64(p.Len()-radius)) > float64(radius)*1e-5 {
				t.Fatalf("radius %v: vertex %v not on sphere surface", radius, p)
			}
		}

		maxSag := float32(options.MaxSag.InMillimeters())
		forEachTriangle(t, mesh, func(p, n [3]mgl32.Vec3) {
			centroid := p[0].Add(p[1]).Add(p[2]).Mul(1.0 / 3.0)
			sag := radius - centroid.Len()
			if sag > maxSag*(1+1e-4) {
				t.Fatalf("radius %v: triangle sag %v exceeds bound %v", radius, sag, maxSag)
			}
		})
	}
}

func TestSphereSharedVertices(t *testing.T) {
	options := &loader.TessellationOptions{MaxSag: 10 * units.Millimeter}
	mesh, err := Tessellate(&primitive.Sphere{Diameter: 1000}, options, mgl32.Ident3(), mgl32.Vec3{})
	if err != nil {
		t.Fatalf("sphere tessellation failed: %v", err)
	}

	// Midpoints must be deduplicated between neighboring triangles: no two
	// vertices may carry the same position.
	seen := make(map[mgl32.Vec3]int)
	for i, p := range mesh.Vertices().Positions() {
		if j, ok := seen[p]; ok {
			t.Fatalf("vertices %d and %d share position %v; midpoints not deduplicated", j, i, p)
		}
		seen[p] = i
	}
}

func TestPolygonsWithHole(t *testing.T) {
	outer := []mgl32.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0}}
	hole := []mgl32.Vec3{{4, 4, 0}, {6, 4, 0}, {6, 6, 0}, {4, 6, 0}}

	toContour := func(ps []mgl32.Vec3) primitive.Contour {
		vertices := make([]primitive.Vertex, len(ps))
		for i, p := range ps {
			vertices[i] = primitive.Vertex{Position: p, Normal: mgl32.Vec3{0, 0, 1}}
		}
		return primitive.Contour{Vertices: vertices}
	}

	polygons := &primitive.Polygons{Polygons: []primitive.Polygon{
		{Contours: []primitive.Contour{toContour(outer), toContour(hole)}},
	}}

	mesh := identityTessellate(t, polygons, nil)

	if n := mesh.Vertices().Len(); n != 8 {
		t.Errorf("triangulation created %d vertices; expected the 8 input vertices", n)
	}

	var totalArea float32
	forEachTriangle(t, mesh, func(p, n [3]mgl32.Vec3) {
		totalArea += p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Len() / 2
		for _, pos := range p {
			if pos.Z() != 0 {
				t.Errorf("triangulated vertex %v left the polygon plane", pos)
			}
		}
	})

	if math.Abs(float64(totalArea-96)) > 1e-3 {
		t.Errorf("triangulated area is %v; expected 96 (outer minus hole)", totalArea)
	}
}

func TestPolygonNormalDegenerate(t *testing.T) {
	// Collinear points have no plane.
	contour := primitive.Contour{Vertices: []primitive.Vertex{
		{Position: mgl32.Vec3{0, 0, 0}},
		{Position: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{2, 0, 0}},
	}}
	if _, ok := polygonNormal(&primitive.Polygon{Contours: []primitive.Contour{contour}}); ok {
		t.Error("expected no normal for collinear input")
	}
}

// TestDegenerateGeometryRejected verifies that solids collapsing to nothing
// come back as a recoverable format error instead of an empty mesh.
func TestDegenerateGeometryRejected(t *testing.T) {
	collinear := &primitive.Polygons{Polygons: []primitive.Polygon{
		{Contours: []primitive.Contour{{Vertices: []primitive.Vertex{
			{Position: mgl32.Vec3{0, 0, 0}},
			{Position: mgl32.Vec3{1, 0, 0}},
			{Position: mgl32.Vec3{2, 0, 0}},
		}}}},
	}}
	_, err := Tessellate(collinear, loader.DefaultTessellationOptions(), mgl32.Ident3(), mgl32.Vec3{})
	if err == nil {
		t.Fatal("expected error for collinear polygons")
	}
	if !cadimport.IsKind(err, cadimport.KindInvalidFormat) {
		t.Errorf("expected invalid-format kind, got %v", cadimport.KindOf(err))
	}

	// All corners coincide, every face collapses.
	_, err = Tessellate(&primitive.Pyramid{}, loader.DefaultTessellationOptions(), mgl32.Ident3(), mgl32.Vec3{})
	if err == nil {
		t.Fatal("expected error for fully degenerate pyramid")
	}
	if !cadimport.IsKind(err, cadimport.KindInvalidFormat) {
		t.Errorf("expected invalid-format kind, got %v", cadimport.KindOf(err))
	}
}

func TestUnsupportedPrimitive(t *testing.T) {
	_, err := Tessellate(
		&primitive.Snout{DBottom: 10, DTop: 5, Height: 20},
		loader.DefaultTessellationOptions(), mgl32.Ident3(), mgl32.Vec3{},
	)
	if errors.Cause(err) != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestSingularTransform(t *testing.T) {
	var singular mgl32.Mat3 // zero matrix
	_, err := Tessellate(
		&primitive.Box{SizeX: 1, SizeY: 1, SizeZ: 1},
		loader.DefaultTessellationOptions(), singular, mgl32.Vec3{},
	)
	if err == nil {
		t.Fatal("expected error for singular transform")
	}
	if !cadimport.IsKind(err, cadimport.KindInvalidFormat) {
		t.Errorf("expected invalid-format kind, got %v", cadimport.KindOf(err))
	}
}

func TestSpectralNorm(t *testing.T) {
	if s := spectralNorm(mgl32.Ident3()); math.Abs(float64(s-1)) > 1e-5 {
		t.Errorf("spectral norm of identity is %v; expected 1", s)
	}

	scale := mgl32.Diag3(mgl32.Vec3{1, 2, 3})
	if s := spectralNorm(scale); math.Abs(float64(s-3)) > 1e-5 {
		t.Errorf("spectral norm of diag(1,2,3) is %v; expected 3", s)
	}

	m := mgl32.Mat3FromRows(
		mgl32.Vec3{1, 2, 3},
		mgl32.Vec3{4, 5, 6},
		mgl32.Vec3{7, 8, 9},
	)
	if s := spectralNorm(m); math.Abs(float64(s-16.848103)) > 1e-3 {
		t.Errorf("spectral norm is %v; expected about 16.848", s)
	}
}

// TestCylinderSolvedResolution pins the derived height and radial counts for
// a few known inputs.
func TestCylinderSolvedResolution(t *testing.T) {
	half := units.Length(0.5)
	p := cylinderTessellationParameter(1, 2, &loader.TessellationOptions{
		MaxSag:    units.Millimeter,
		MaxLength: &half,
	})
	if p.numHeightSegments != 4 {
		t.Errorf("height segments = %d; expected 4", p.numHeightSegments)
	}
	if p.numRadialCircles != 2 {
		t.Errorf("radial circles = %d; expected 2", p.numRadialCircles)
	}

	tenth := units.Length(0.1)
	p = cylinderTessellationParameter(1, 3, &loader.TessellationOptions{
		MaxSag:    units.Millimeter,
		MaxLength: &tenth,
	})
	if p.numHeightSegments != 30 {
		t.Errorf("height segments = %d; expected 30", p.numHeightSegments)
	}
	if p.numRadialCircles != 10 {
		t.Errorf("radial circles = %d; expected 10", p.numRadialCircles)
	}
}
