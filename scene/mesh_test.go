package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	cadimport "github.com/raw-bytes/cad-import"
)

func TestNewMeshRejectsOutOfBoundsIndices(t *testing.T) {
	vertices := VerticesFromPositions([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})

	prims, err := NewPrimitives([]uint32{0, 1, 3}, Triangles)
	if err != nil {
		t.Fatalf("NewPrimitives failed: %v", err)
	}

	if _, err := NewMesh(vertices, prims); err == nil {
		t.Fatalf("expected indices error for index 3 with 3 vertices")
	} else if !cadimport.IsKind(err, cadimport.KindIndices) {
		t.Errorf("expected indices kind, got %v", cadimport.KindOf(err))
	}

	prims, err = NewPrimitives([]uint32{0, 1, 2}, Triangles)
	if err != nil {
		t.Fatalf("NewPrimitives failed: %v", err)
	}
	if _, err := NewMesh(vertices, prims); err != nil {
		t.Errorf("valid mesh rejected: %v", err)
	}
}

func TestVerticesAttributeLengths(t *testing.T) {
	vertices := VerticesFromPositions([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}})

	if err := vertices.SetNormals([]mgl32.Vec3{{0, 0, 1}}); err == nil {
		t.Errorf("expected error for normal count mismatch")
	}
	if err := vertices.SetNormals([]mgl32.Vec3{{0, 0, 1}, {0, 0, 1}}); err != nil {
		t.Errorf("SetNormals failed: %v", err)
	}
	if err := vertices.SetColors([]mgl32.Vec4{{1, 0, 0, 1}}); err == nil {
		t.Errorf("expected error for color count mismatch")
	}
}

func TestNumPrimitives(t *testing.T) {
	tests := []struct {
		indices []uint32
		ptype   PrimitiveType
		num     int
	}{
		{[]uint32{1, 2}, Points, 2},
		{[]uint32{1, 2, 3, 4}, Lines, 2},
		{[]uint32{1, 2, 3, 4}, LineLoop, 4},
		{[]uint32{1, 2, 3, 4}, LineStrip, 3},
		{[]uint32{1, 2, 3, 4, 5, 6}, Triangles, 2},
		{[]uint32{1, 2, 3, 4, 5, 6}, TriangleStrip, 4},
		{[]uint32{1, 2, 3, 4, 5, 6}, TriangleFan, 4},
	}

	for _, test := range tests {
		p, err := NewPrimitives(test.indices, test.ptype)
		if err != nil {
			t.Errorf("NewPrimitives(%v, %v) failed: %v", test.indices, test.ptype, err)
			continue
		}
		if p.NumPrimitives() != test.num {
			t.Errorf("NumPrimitives(%v, %v)=%d; expected %d", test.indices, test.ptype, p.NumPrimitives(), test.num)
		}
	}

	if _, err := NewPrimitives([]uint32{0, 1}, Triangles); err == nil {
		t.Errorf("expected error for triangle indices not a multiple of 3")
	}
}
