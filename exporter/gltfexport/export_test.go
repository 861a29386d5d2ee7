package gltfexport

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/raw-bytes/cad-import/scene"
	"github.com/raw-bytes/cad-import/units"
)

func triangleMesh(t *testing.T) *scene.Mesh {
	t.Helper()

	vertices := scene.VerticesFromPositions([]mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	})
	if err := vertices.SetNormals([]mgl32.Vec3{
		{0, 0, 1}, {0, 0, 1}, {0, 0, 1},
	}); err != nil {
		t.Fatal(err)
	}

	primitives, err := scene.NewPrimitives([]uint32{0, 1, 2}, scene.Triangles)
	if err != nil {
		t.Fatal(err)
	}
	mesh, err := scene.NewMesh(vertices, primitives)
	if err != nil {
		t.Fatal(err)
	}
	return mesh
}

func TestExportSharesShapesAndMaterials(t *testing.T) {
	tree := scene.NewTree()
	root := tree.CreateNode("plant")
	left := tree.CreateNodeWithParent("left", root)
	right := tree.CreateNodeWithParent("right", root)

	material := scene.NewPhongMaterial()
	mesh := triangleMesh(t)

	shape := scene.NewShape(scene.NewIDGenerator())
	shape.AddPart(scene.ShapePart{Mesh: mesh, Material: material})
	shape.AddPart(scene.ShapePart{Mesh: mesh, Material: material})

	tree.Node(left).AttachShape(shape)
	tree.Node(right).AttachShape(shape)

	doc, err := Export(scene.NewCADData(tree, units.Millimeter))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// Two parts of one shared shape: two meshes, written once.
	if len(doc.Meshes) != 2 {
		t.Errorf("got %d meshes, want 2", len(doc.Meshes))
	}
	if len(doc.Materials) != 1 {
		t.Errorf("got %d materials, want 1", len(doc.Materials))
	}

	// plant + left + right plus one mesh carrier per part instance.
	if len(doc.Nodes) != 3+4 {
		t.Errorf("got %d nodes, want 7", len(doc.Nodes))
	}
	if len(doc.Scenes[0].Nodes) != 1 {
		t.Fatalf("got %d scene roots, want 1", len(doc.Scenes[0].Nodes))
	}

	rootNode := doc.Nodes[doc.Scenes[0].Nodes[0]]
	if rootNode.Name != "plant" {
		t.Errorf("root name = %q", rootNode.Name)
	}
	if rootNode.Scale != [3]float32{0.001, 0.001, 0.001} {
		t.Errorf("root scale = %v, want millimeter conversion", rootNode.Scale)
	}
}

func TestExportNodeMatrix(t *testing.T) {
	tree := scene.NewTree()
	root := tree.CreateNode("root")
	child := tree.CreateNodeWithParent("child", root)
	tree.Node(child).SetTransform(mgl32.Translate3D(1, 2, 3))

	doc, err := Export(scene.NewCADData(tree, units.Meter))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var childNode *gltf.Node
	for _, n := range doc.Nodes {
		if n.Name == "child" {
			childNode = n
		}
	}
	if childNode == nil {
		t.Fatal("child node not exported")
	}

	want := [16]float32(mgl32.Translate3D(1, 2, 3))
	if childNode.Matrix != want {
		t.Errorf("matrix = %v, want %v", childNode.Matrix, want)
	}
}

func TestExportBinary(t *testing.T) {
	tree := scene.NewTree()
	root := tree.CreateNode("root")
	shape := scene.NewShape(scene.NewIDGenerator())
	shape.AddPart(scene.ShapePart{Mesh: triangleMesh(t)})
	tree.Node(root).AttachShape(shape)

	var buf bytes.Buffer
	if err := ExportBinary(&buf, scene.NewCADData(tree, units.Meter)); err != nil {
		t.Fatalf("ExportBinary: %v", err)
	}

	if buf.Len() < 12 || string(buf.Bytes()[:4]) != "glTF" {
		t.Error("output is not a GLB container")
	}
}

func TestExportEmptyTree(t *testing.T) {
	doc, err := Export(scene.NewCADData(scene.NewTree(), units.Meter))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(doc.Nodes) != 0 || len(doc.Scenes[0].Nodes) != 0 {
		t.Errorf("empty tree exported %d nodes", len(doc.Nodes))
	}
}
