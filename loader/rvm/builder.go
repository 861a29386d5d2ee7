package rvm

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/loader/rvm/primitive"
	"github.com/raw-bytes/cad-import/loader/rvm/tessellate"
	"github.com/raw-bytes/cad-import/scene"
	"github.com/raw-bytes/cad-import/units"
)

// sceneBuilder consumes parser events and assembles the scene tree. It keeps
// a node stack mirroring the CNTB/CNTE nesting and one shape-part accumulator
// per open group.
type sceneBuilder struct {
	options *loader.TessellationOptions

	tree      *scene.Tree
	nodeStack []scene.NodeID

	// parts[i] accumulates the shape parts of the group at nodeStack[i].
	parts [][]scene.ShapePart

	shapeIDs  *scene.IDGenerator
	materials *materialCache

	model *ModelHeader
}

func newSceneBuilder(options *loader.TessellationOptions) *sceneBuilder {
	return &sceneBuilder{
		options:   options,
		tree:      scene.NewTree(),
		shapeIDs:  scene.NewIDGenerator(),
		materials: newMaterialCache(),
	}
}

func (b *sceneBuilder) Header(h *Header) error {
	return nil
}

// Model creates the root node named after the model and opens it as the
// outermost group.
func (b *sceneBuilder) Model(m *ModelHeader) error {
	b.model = m

	label := m.ModelName
	if label == "" {
		label = m.ProjectName
	}
	if label == "" {
		label = "model"
	}

	root := b.tree.CreateNode(label)
	b.nodeStack = append(b.nodeStack, root)
	b.parts = append(b.parts, nil)
	return nil
}

func (b *sceneBuilder) BeginGroup(name string, translation mgl32.Vec3, materialID uint32) error {
	if len(b.nodeStack) == 0 {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "group %q outside of a model", name)
	}
	if materialID > 255 {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "material id %d out of range", materialID)
	}

	parent := b.nodeStack[len(b.nodeStack)-1]
	id := b.tree.CreateNodeWithParent(name, parent)

	node := b.tree.Node(id)
	node.SetTransform(mgl32.Translate3D(translation.X(), translation.Y(), translation.Z()))
	node.SetMaterial(b.materials.CreateMaterial(uint8(materialID)))

	b.nodeStack = append(b.nodeStack, id)
	b.parts = append(b.parts, nil)
	return nil
}

// EndGroup pops the current group and attaches the accumulated parts as one
// shared shape. Popping the root is a structural error.
func (b *sceneBuilder) EndGroup() error {
	if len(b.nodeStack) <= 1 {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "unbalanced group end")
	}

	top := len(b.nodeStack) - 1
	id := b.nodeStack[top]
	parts := b.parts[top]
	b.nodeStack = b.nodeStack[:top]
	b.parts = b.parts[:top]

	if len(parts) > 0 {
		shape := scene.NewShape(b.shapeIDs)
		for _, part := range parts {
			shape.AddPart(part)
		}
		b.tree.Node(id).AttachShape(shape)
	}
	return nil
}

// Primitive tessellates the solid and appends it to the open group.
// Unsupported kinds and singular transforms are logged and skipped; the parse
// continues.
func (b *sceneBuilder) Primitive(p primitive.Primitive, transform mgl32.Mat3, translation mgl32.Vec3) error {
	if len(b.nodeStack) == 0 {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "primitive outside of a model")
	}

	mesh, err := tessellate.Tessellate(p, b.options, transform, translation)
	if err != nil {
		if errors.Cause(err) == ErrUnsupportedPrimitive {
			log.Printf("[rvm] skipping unsupported primitive: %s", p.Name())
			return nil
		}
		if cadimport.IsKind(err, cadimport.KindInvalidFormat) {
			log.Printf("[rvm] skipping %s: %v", p.Name(), err)
			return nil
		}
		return err
	}

	top := len(b.nodeStack) - 1
	material := b.tree.Node(b.nodeStack[top]).Material()
	b.parts[top] = append(b.parts[top], scene.ShapePart{Mesh: mesh, Material: material})
	return nil
}

// ErrUnsupportedPrimitive aliases the tessellation sentinel so callers of the
// builder do not need to know the tessellate package.
var ErrUnsupportedPrimitive = tessellate.ErrUnsupported

// Finalize wraps the built tree in the scene container with the format's
// native millimeter unit.
func (b *sceneBuilder) Finalize() *scene.CADData {
	return scene.NewCADData(b.tree, units.Millimeter)
}
