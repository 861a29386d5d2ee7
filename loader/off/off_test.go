package off

import (
	"testing"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/units"
)

func TestLoadQuad(t *testing.T) {
	input := `OFF
# a single quad, fan-triangulated
4 1
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`
	var l Loader
	data, err := l.Load(&loader.MemoryResource{Data: []byte(input), Mime: mimeType}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if data.Unit() != units.Meter {
		t.Errorf("unit = %v, want meter", data.Unit())
	}

	root := data.Tree().Root()
	if root == nil {
		t.Fatal("no root node")
	}
	if root.Label() != "root" {
		t.Errorf("root label = %q", root.Label())
	}
	if len(root.Shapes()) != 1 {
		t.Fatalf("got %d shapes, want 1", len(root.Shapes()))
	}

	parts := root.Shapes()[0].Parts()
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	mesh := parts[0].Mesh

	if mesh.Vertices().Len() != 4 {
		t.Errorf("got %d vertices, want 4", mesh.Vertices().Len())
	}
	wantIndices := []uint32{0, 1, 2, 0, 2, 3}
	gotIndices := mesh.Primitives().Indices()
	if len(gotIndices) != len(wantIndices) {
		t.Fatalf("got %d indices, want %d", len(gotIndices), len(wantIndices))
	}
	for i, want := range wantIndices {
		if gotIndices[i] != want {
			t.Errorf("index %d = %d, want %d", i, gotIndices[i], want)
		}
	}
}

func TestLoadVertexColors(t *testing.T) {
	input := `OFF
3 1
0 0 0 1 0 0 1
1 0 0 0 1 0 1
0 1 0 0 0 1 0.5
3 0 1 2
`
	var l Loader
	data, err := l.Load(&loader.MemoryResource{Data: []byte(input), Mime: mimeType}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	mesh := data.Tree().Root().Shapes()[0].Parts()[0].Mesh
	colors := mesh.Vertices().Colors()
	if len(colors) != 3 {
		t.Fatalf("got %d colors, want 3", len(colors))
	}
	if colors[0] != [4]float32{1, 0, 0, 1} {
		t.Errorf("color 0 = %v", colors[0])
	}
	if colors[2] != [4]float32{0, 0, 1, 0.5} {
		t.Errorf("color 2 = %v", colors[2])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  cadimport.Kind
	}{
		{
			name:  "missing header",
			input: "3 1\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n",
			kind:  cadimport.KindInvalidFormat,
		},
		{
			name:  "index out of range",
			input: "OFF\n3 1\n0 0 0\n1 0 0\n0 1 0\n3 0 1 3\n",
			kind:  cadimport.KindInvalidFormat,
		},
		{
			name:  "truncated file",
			input: "OFF\n3 1\n0 0 0\n1 0 0\n",
			kind:  cadimport.KindIO,
		},
		{
			name:  "negative vertex count",
			input: "OFF\n-1 5\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n",
			kind:  cadimport.KindInvalidFormat,
		},
		{
			name:  "negative face count",
			input: "OFF\n3 -1\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n",
			kind:  cadimport.KindInvalidFormat,
		},
		{
			name:  "short face line",
			input: "OFF\n3 1\n0 0 0\n1 0 0\n0 1 0\n3 0 1\n",
			kind:  cadimport.KindInvalidFormat,
		},
		{
			name:  "short colored vertex line",
			input: "OFF\n2 0\n0 0 0 1 0 0 1\n1 0 0\n",
			kind:  cadimport.KindInvalidFormat,
		},
	}

	var l Loader
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := l.Load(&loader.MemoryResource{Data: []byte(test.input), Mime: mimeType}, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !cadimport.IsKind(err, test.kind) {
				t.Errorf("kind = %v, want %v (err: %v)", cadimport.KindOf(err), test.kind, err)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	if loader.ByExtension("off") == nil {
		t.Error("no loader registered for .off")
	}
	if loader.ByMimeType(mimeType) == nil {
		t.Errorf("no loader registered for %s", mimeType)
	}
}
