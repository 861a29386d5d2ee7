// Package gltf reads glTF 2.0 assets, both the JSON form and the packed GLB
// container. Node hierarchies, triangle meshes and PBR materials map onto the
// scene structure; everything else (animations, skins, cameras) is ignored.
package gltf

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	cadimport "github.com/raw-bytes/cad-import"
	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/scene"
	"github.com/raw-bytes/cad-import/units"
)

const (
	mimeTypeBinary = "model/gltf-binary"
	mimeTypeJSON   = "model/gltf+json"
)

// Loader reads glTF 2.0 scenes.
type Loader struct{}

func (l *Loader) Name() string { return "GL Transmission Format 2.0" }

func (l *Loader) Priority() uint32 { return 1000 }

func (l *Loader) MimeTypes() []string { return []string{mimeTypeBinary, mimeTypeJSON} }

func (l *Loader) Extensions() map[string][]string {
	return map[string][]string{
		"glb":  {mimeTypeBinary},
		"gltf": {mimeTypeJSON},
	}
}

func (l *Loader) Load(r loader.Resource, _ *loader.TessellationOptions) (*scene.CADData, error) {
	in, err := r.Open()
	if err != nil {
		return nil, err
	}
	defer in.Close()

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(in).Decode(doc); err != nil {
		return nil, cadimport.WrapError(cadimport.KindInvalidFormat, err, "failed to decode document")
	}

	c := &converter{
		doc:       doc,
		tree:      scene.NewTree(),
		shapeIDs:  scene.NewIDGenerator(),
		materials: make(map[int]*scene.Material),
		meshes:    make(map[int]*scene.Shape),
	}
	if err := c.convert(); err != nil {
		return nil, err
	}
	return scene.NewCADData(c.tree, units.Meter), nil
}

func init() {
	loader.Register(&Loader{})
}

// converter walks the document's default scene and rebuilds it as a tree.
// Meshes and materials referenced from several nodes are converted once and
// shared.
type converter struct {
	doc      *gltf.Document
	tree     *scene.Tree
	shapeIDs *scene.IDGenerator

	materials map[int]*scene.Material
	meshes    map[int]*scene.Shape
}

func (c *converter) convert() error {
	sceneIndex := 0
	if c.doc.Scene != nil {
		sceneIndex = int(*c.doc.Scene)
	}
	if sceneIndex >= len(c.doc.Scenes) {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "scene %d does not exist", sceneIndex)
	}
	docScene := c.doc.Scenes[sceneIndex]

	label := docScene.Name
	if label == "" {
		label = "scene"
	}
	root := c.tree.CreateNode(label)

	for _, nodeIndex := range docScene.Nodes {
		if err := c.convertNode(int(nodeIndex), root); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) convertNode(nodeIndex int, parent scene.NodeID) error {
	if nodeIndex >= len(c.doc.Nodes) {
		return cadimport.Errorf(cadimport.KindInvalidFormat, "node %d does not exist", nodeIndex)
	}
	docNode := c.doc.Nodes[nodeIndex]

	id := c.tree.CreateNodeWithParent(docNode.Name, parent)
	node := c.tree.Node(id)
	node.SetTransform(nodeTransform(docNode))

	if docNode.Mesh != nil {
		shape, err := c.convertMesh(int(*docNode.Mesh))
		if err != nil {
			return err
		}
		if shape != nil {
			node.AttachShape(shape)
		}
	}

	for _, child := range docNode.Children {
		if err := c.convertNode(int(child), id); err != nil {
			return err
		}
	}
	return nil
}

// nodeTransform returns the node's matrix if one is set, otherwise composes
// translation, rotation and scale in that order.
func nodeTransform(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != gltf.DefaultMatrix {
		return mgl32.Mat4(n.Matrix)
	}

	translation := mgl32.Translate3D(n.Translation[0], n.Translation[1], n.Translation[2])
	rotation := mgl32.Quat{
		W: n.Rotation[3],
		V: mgl32.Vec3{n.Rotation[0], n.Rotation[1], n.Rotation[2]},
	}.Mat4()
	scale := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return translation.Mul4(rotation).Mul4(scale)
}

func (c *converter) convertMesh(meshIndex int) (*scene.Shape, error) {
	if shape, ok := c.meshes[meshIndex]; ok {
		return shape, nil
	}
	if meshIndex >= len(c.doc.Meshes) {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "mesh %d does not exist", meshIndex)
	}
	docMesh := c.doc.Meshes[meshIndex]

	shape := scene.NewShape(c.shapeIDs)
	for _, prim := range docMesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			log.Printf("[gltf] skipping non-triangle primitive in mesh %q", docMesh.Name)
			continue
		}

		mesh, err := c.convertPrimitive(prim)
		if err != nil {
			return nil, err
		}

		part := scene.ShapePart{Mesh: mesh}
		if prim.Material != nil {
			material, err := c.convertMaterial(int(*prim.Material))
			if err != nil {
				return nil, err
			}
			part.Material = material
		}
		shape.AddPart(part)
	}

	if len(shape.Parts()) == 0 {
		shape = nil
	}
	c.meshes[meshIndex] = shape
	return shape, nil
}

// accessor resolves an accessor index against the document.
func (c *converter) accessor(index uint32) (*gltf.Accessor, error) {
	if int(index) >= len(c.doc.Accessors) {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "accessor %d does not exist", index)
	}
	return c.doc.Accessors[index], nil
}

func (c *converter) convertPrimitive(prim *gltf.Primitive) (*scene.Mesh, error) {
	posIndex, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "primitive without positions")
	}

	acc, err := c.accessor(posIndex)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(c.doc, acc, nil)
	if err != nil {
		return nil, cadimport.WrapError(cadimport.KindInvalidFormat, err, "failed to read positions")
	}

	vertices := scene.VerticesFromPositions(vec3Slice(positions))

	if normalIndex, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := c.accessor(normalIndex)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(c.doc, acc, nil)
		if err != nil {
			return nil, cadimport.WrapError(cadimport.KindInvalidFormat, err, "failed to read normals")
		}
		if err := vertices.SetNormals(vec3Slice(normals)); err != nil {
			return nil, err
		}
	}

	if colorIndex, ok := prim.Attributes[gltf.COLOR_0]; ok {
		acc, err := c.accessor(colorIndex)
		if err != nil {
			return nil, err
		}
		rgba, err := modeler.ReadColor(c.doc, acc, nil)
		if err != nil {
			return nil, cadimport.WrapError(cadimport.KindInvalidFormat, err, "failed to read colors")
		}
		colors := make([]mgl32.Vec4, len(rgba))
		for i, col := range rgba {
			colors[i] = mgl32.Vec4{
				float32(col[0]) / 255, float32(col[1]) / 255,
				float32(col[2]) / 255, float32(col[3]) / 255,
			}
		}
		if err := vertices.SetColors(colors); err != nil {
			return nil, err
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acc, err := c.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(c.doc, acc, nil)
		if err != nil {
			return nil, cadimport.WrapError(cadimport.KindInvalidFormat, err, "failed to read indices")
		}
	} else {
		indices = make([]uint32, vertices.Len())
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	primitives, err := scene.NewPrimitives(indices, scene.Triangles)
	if err != nil {
		return nil, err
	}
	return scene.NewMesh(vertices, primitives)
}

// convertMaterial maps the metallic-roughness model onto the Phong material:
// the base color becomes the diffuse color, roughness inverts into shininess
// and the metallic factor tints the specular color.
func (c *converter) convertMaterial(materialIndex int) (*scene.Material, error) {
	if material, ok := c.materials[materialIndex]; ok {
		return material, nil
	}
	if materialIndex >= len(c.doc.Materials) {
		return nil, cadimport.Errorf(cadimport.KindInvalidFormat, "material %d does not exist", materialIndex)
	}
	docMaterial := c.doc.Materials[materialIndex]

	material := scene.NewPhongMaterial()
	if pbr := docMaterial.PBRMetallicRoughness; pbr != nil {
		base := pbr.BaseColorFactorOrDefault()
		material.DiffuseColor = mgl32.Vec3{base[0], base[1], base[2]}
		material.Transparency = 1 - base[3]
		material.Shininess = 1 - pbr.RoughnessFactorOrDefault()

		metallic := pbr.MetallicFactorOrDefault()
		material.SpecularColor = material.DiffuseColor.Mul(metallic)
	}
	material.EmissiveColor = mgl32.Vec3{
		docMaterial.EmissiveFactor[0],
		docMaterial.EmissiveFactor[1],
		docMaterial.EmissiveFactor[2],
	}

	c.materials[materialIndex] = material
	return material, nil
}

func vec3Slice(values [][3]float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var _ loader.Loader = (*Loader)(nil)
