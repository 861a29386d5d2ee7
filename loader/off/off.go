// Package off reads the Object File Format (OFF), a simple line-oriented
// text format for polyhedra: a header line, a counts line, the vertices and
// the faces. Faces with more than three vertices are fan-triangulated.
package off

import (
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/scene"
	"github.com/raw-bytes/cad-import/units"
)

const mimeType = "model/vnd.off"

const (
	tokenKeyword = iota
	tokenNumber
	tokenNewline
	tokenComment
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`OFF`), getToken(tokenKeyword))
	lexer.Add([]byte(`[\+\-]?[0-9]*\.?[0-9]+([eE][\+\-]?[0-9]+)?`), getToken(tokenNumber))
	lexer.Add([]byte(`(\n|\r|\n\r)+`), getToken(tokenNewline))
	lexer.Add([]byte(`#[^\n]*`), getToken(tokenComment))
	lexer.Add([]byte(`[ \t]+`), skip)

	loader.Register(&Loader{})
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

// numberLine is one non-empty line reduced to its numeric fields.
type numberLine struct {
	line   int
	values []float64
}

// scanLines tokenizes the whole input and groups the number tokens by line.
// Comments are dropped, the OFF keyword must open the file.
func scanLines(data []byte) ([]numberLine, error) {
	scanner, err := lexer.Scanner(data)
	if err != nil {
		return nil, cadimport.WrapError(cadimport.KindInvalidFormat, err, "failed to create scanner")
	}

	var lines []numberLine
	var current numberLine
	headerSeen := false

	flush := func() {
		if len(current.values) > 0 {
			lines = append(lines, current)
			current = numberLine{}
		}
	}

	for itok, err, eos := scanner.Next(); !eos; itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, cadimport.WrapError(cadimport.KindInvalidFormat, err, "failed to tokenize input")
		}
		tok := itok.(*lexmachine.Token)

		switch tok.Type {
		case tokenKeyword:
			if headerSeen || len(lines) > 0 || len(current.values) > 0 {
				return nil, cadimport.Errorf(cadimport.KindInvalidFormat,
					"unexpected OFF keyword on line %d", tok.StartLine)
			}
			headerSeen = true
		case tokenNumber:
			v, err := strconv.ParseFloat(string(tok.Lexeme), 64)
			if err != nil {
				return nil, cadimport.Errorf(cadimport.KindInvalidFormat,
					"invalid number %q on line %d", tok.Lexeme, tok.StartLine)
			}
			current.line = tok.StartLine
			current.values = append(current.values, v)
		case tokenNewline:
			flush()
		case tokenComment:
			// ignored
		}
	}
	flush()

	if !headerSeen {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "missing OFF header")
	}
	return lines, nil
}

// Loader reads OFF polyhedron files.
type Loader struct{}

func (l *Loader) Name() string { return "Object File Format" }

func (l *Loader) Priority() uint32 { return 1000 }

func (l *Loader) MimeTypes() []string { return []string{mimeType} }

func (l *Loader) Extensions() map[string][]string {
	return map[string][]string{"off": {mimeType}}
}

func (l *Loader) Load(r loader.Resource, _ *loader.TessellationOptions) (*scene.CADData, error) {
	in, err := r.Open()
	if err != nil {
		return nil, err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, cadimport.WrapError(cadimport.KindIO, err, "failed to read resource")
	}

	lines, err := scanLines(data)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "missing counts line")
	}

	counts := lines[0]
	if len(counts.values) < 2 {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat,
			"counts line %d needs vertex and face counts", counts.line)
	}
	numVertices := int(counts.values[0])
	numFaces := int(counts.values[1])
	if numVertices < 0 || numFaces < 0 {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat,
			"counts line %d carries negative counts (%d vertices, %d faces)",
			counts.line, numVertices, numFaces)
	}
	body := lines[1:]

	if len(body) < numVertices+numFaces {
		return nil, cadimport.Errorf(cadimport.KindIO,
			"expected %d vertex and %d face lines, got %d", numVertices, numFaces, len(body))
	}

	vertices, err := readVertices(body[:numVertices])
	if err != nil {
		return nil, err
	}
	primitives, err := readFaces(body[numVertices:numVertices+numFaces], numVertices)
	if err != nil {
		return nil, err
	}

	mesh, err := scene.NewMesh(vertices, primitives)
	if err != nil {
		return nil, err
	}

	shape := scene.NewShape(scene.NewIDGenerator())
	shape.AddPart(scene.ShapePart{Mesh: mesh})

	tree := scene.NewTree()
	root := tree.CreateNode("root")
	tree.Node(root).AttachShape(shape)

	return scene.NewCADData(tree, units.Meter), nil
}

// readVertices parses the vertex lines. A line with at least 7 fields also
// carries an RGBA color; the first line decides for the whole file.
func readVertices(lines []numberLine) (*scene.Vertices, error) {
	if len(lines) == 0 {
		return scene.NewVertices(), nil
	}

	hasColors := len(lines[0].values) >= 7

	positions := make([]mgl32.Vec3, 0, len(lines))
	var colors []mgl32.Vec4
	if hasColors {
		colors = make([]mgl32.Vec4, 0, len(lines))
	}

	for _, l := range lines {
		want := 3
		if hasColors {
			want = 7
		}
		if len(l.values) < want {
			return nil, cadimport.Errorf(cadimport.KindInvalidFormat,
				"vertex line %d has %d fields, expected %d", l.line, len(l.values), want)
		}

		positions = append(positions, mgl32.Vec3{
			float32(l.values[0]), float32(l.values[1]), float32(l.values[2]),
		})
		if hasColors {
			colors = append(colors, mgl32.Vec4{
				float32(l.values[3]), float32(l.values[4]),
				float32(l.values[5]), float32(l.values[6]),
			})
		}
	}

	vertices := scene.VerticesFromPositions(positions)
	if hasColors {
		if err := vertices.SetColors(colors); err != nil {
			return nil, err
		}
	}
	return vertices, nil
}

// readFaces parses the face lines into a fan-triangulated index buffer.
func readFaces(lines []numberLine, numVertices int) (*scene.Primitives, error) {
	indices := make([]uint32, 0, len(lines)*3)

	for _, l := range lines {
		if len(l.values) < 1 {
			return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "empty face line %d", l.line)
		}
		n := int(l.values[0])
		if n < 3 || len(l.values) < 1+n {
			return nil, cadimport.Errorf(cadimport.KindInvalidFormat,
				"face line %d announces %d indices but carries %d fields", l.line, n, len(l.values)-1)
		}

		v0 := uint32(l.values[1])
		v1 := uint32(l.values[2])
		for i := 3; i <= n; i++ {
			v2 := uint32(l.values[i])

			if int(v0) >= numVertices || int(v1) >= numVertices || int(v2) >= numVertices {
				return nil, cadimport.Errorf(cadimport.KindInvalidFormat,
					"face line %d references a vertex beyond the %d defined", l.line, numVertices)
			}
			indices = append(indices, v0, v1, v2)
			v1 = v2
		}
	}

	return scene.NewPrimitives(indices, scene.Triangles)
}

var _ loader.Loader = (*Loader)(nil)
