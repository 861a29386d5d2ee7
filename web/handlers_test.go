package web

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/raw-bytes/cad-import/scene"
	"github.com/raw-bytes/cad-import/units"
)

func testData(t *testing.T) *scene.CADData {
	t.Helper()

	tree := scene.NewTree()
	root := tree.CreateNode("plant")
	pipes := tree.CreateNodeWithParent("pipes", root)

	vertices := scene.VerticesFromPositions([]mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	})
	primitives, err := scene.NewPrimitives([]uint32{0, 1, 2}, scene.Triangles)
	if err != nil {
		t.Fatal(err)
	}
	mesh, err := scene.NewMesh(vertices, primitives)
	if err != nil {
		t.Fatal(err)
	}

	shape := scene.NewShape(scene.NewIDGenerator())
	shape.AddPart(scene.ShapePart{Mesh: mesh, Material: scene.NewPhongMaterial()})
	tree.Node(pipes).AttachShape(shape)
	// shared instance
	tree.Node(root).AttachShape(shape)

	return scene.NewCADData(tree, units.Millimeter)
}

func TestHandlerTree(t *testing.T) {
	serverData = testData(t)

	w := httptest.NewRecorder()
	HandlerTree(w, httptest.NewRequest("GET", "/json/tree", nil))

	if w.Code != 200 {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var root jsonNode
	if err := json.Unmarshal(w.Body.Bytes(), &root); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if root.Label != "plant" {
		t.Errorf("root label = %q", root.Label)
	}
	if len(root.Children) != 1 || root.Children[0].Label != "pipes" {
		t.Fatalf("children = %+v", root.Children)
	}

	pipes := root.Children[0]
	if len(pipes.Shapes) != 1 || len(pipes.Shapes[0].Parts) != 1 {
		t.Fatalf("shapes = %+v", pipes.Shapes)
	}
	part := pipes.Shapes[0].Parts[0]
	if part.NumVertices != 3 || part.NumTriangles != 1 || !part.HasMaterial {
		t.Errorf("part = %+v", part)
	}
}

func TestHandlerStats(t *testing.T) {
	serverData = testData(t)

	w := httptest.NewRecorder()
	HandlerStats(w, httptest.NewRequest("GET", "/json/stats", nil))

	var stats jsonStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	// The shape hangs on two nodes but counts once.
	want := jsonStats{
		NumNodes: 2, NumShapes: 1, NumParts: 1,
		NumVertices: 3, NumTriangles: 1,
		UnitInMeters: 0.001,
	}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestHandlerExportGLTF(t *testing.T) {
	serverData = testData(t)

	w := httptest.NewRecorder()
	HandlerExportGLTF(w, httptest.NewRequest("GET", "/export/gltf", nil))

	body := w.Body.Bytes()
	if len(body) < 4 || string(body[:4]) != "glTF" {
		t.Error("response is not a GLB container")
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("missing content disposition")
	}
}
