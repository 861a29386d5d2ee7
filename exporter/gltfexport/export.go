// Package gltfexport writes the scene structure as a glTF 2.0 document.
package gltfexport

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/raw-bytes/cad-import/scene"
)

// Export converts the CAD data into a glTF document. Shapes and materials
// referenced from several nodes are written once and shared. Lengths are
// converted to meters via a scale on the exported root node.
func Export(data *scene.CADData) (*gltf.Document, error) {
	e := &exporter{
		doc:       gltf.NewDocument(),
		tree:      data.Tree(),
		materials: make(map[*scene.Material]uint32),
		shapes:    make(map[scene.ShapeID][]meshRef),
	}

	root := e.tree.Root()
	if root == nil {
		return e.doc, nil
	}

	rootIndex, err := e.exportNode(root)
	if err != nil {
		return nil, err
	}

	// The unit scale rides on the root node. A root carrying its own matrix
	// gets the scale folded into it, matrix and TRS are mutually exclusive.
	scale := float32(data.Unit().InMeters())
	rootNode := e.doc.Nodes[rootIndex]
	if rootNode.Matrix == ([16]float32{}) {
		rootNode.Scale = [3]float32{scale, scale, scale}
	} else {
		m := mgl32.Mat4(rootNode.Matrix).Mul4(mgl32.Scale3D(scale, scale, scale))
		rootNode.Matrix = [16]float32(m)
	}
	e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, rootIndex)

	return e.doc, nil
}

// ExportBinary writes the CAD data in the packed GLB form.
func ExportBinary(w io.Writer, data *scene.CADData) error {
	doc, err := Export(data)
	if err != nil {
		return err
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

// meshRef pairs an exported mesh with the material the shape part carried, so
// a shared shape reuses accessors while each instance keeps its material.
type meshRef struct {
	mesh     uint32
	material *scene.Material
}

type exporter struct {
	doc  *gltf.Document
	tree *scene.Tree

	materials map[*scene.Material]uint32
	shapes    map[scene.ShapeID][]meshRef
}

func (e *exporter) exportNode(node *scene.Node) (uint32, error) {
	gltfNode := &gltf.Node{Name: node.Label()}
	if t := node.Transform(); t != nil {
		gltfNode.Matrix = [16]float32(*t)
	}

	for _, shape := range node.Shapes() {
		refs, err := e.exportShape(shape)
		if err != nil {
			return 0, err
		}
		for _, ref := range refs {
			mesh := ref.mesh
			childIndex := uint32(len(e.doc.Nodes))
			e.doc.Nodes = append(e.doc.Nodes, &gltf.Node{Mesh: gltf.Index(mesh)})
			gltfNode.Children = append(gltfNode.Children, childIndex)
		}
	}

	for _, childID := range node.Children() {
		childIndex, err := e.exportNode(e.tree.Node(childID))
		if err != nil {
			return 0, err
		}
		gltfNode.Children = append(gltfNode.Children, childIndex)
	}

	index := uint32(len(e.doc.Nodes))
	e.doc.Nodes = append(e.doc.Nodes, gltfNode)
	return index, nil
}

func (e *exporter) exportShape(shape *scene.Shape) ([]meshRef, error) {
	if refs, ok := e.shapes[shape.ID()]; ok {
		return refs, nil
	}

	refs := make([]meshRef, 0, len(shape.Parts()))
	for _, part := range shape.Parts() {
		meshIndex, err := e.exportMesh(part.Mesh, part.Material)
		if err != nil {
			return nil, err
		}
		refs = append(refs, meshRef{mesh: meshIndex, material: part.Material})
	}

	e.shapes[shape.ID()] = refs
	return refs, nil
}

func (e *exporter) exportMesh(mesh *scene.Mesh, material *scene.Material) (uint32, error) {
	vertices := mesh.Vertices()

	positions := make([][3]float32, vertices.Len())
	for i, p := range vertices.Positions() {
		positions[i] = p
	}

	attributes := map[string]uint32{
		gltf.POSITION: modeler.WritePosition(e.doc, positions),
	}

	if normals := vertices.Normals(); normals != nil {
		values := make([][3]float32, len(normals))
		for i, n := range normals {
			values[i] = n
		}
		attributes[gltf.NORMAL] = modeler.WriteNormal(e.doc, values)
	}

	if colors := vertices.Colors(); colors != nil {
		values := make([][4]uint8, len(colors))
		for i, c := range colors {
			values[i] = [4]uint8{
				floatToByte(c[0]), floatToByte(c[1]),
				floatToByte(c[2]), floatToByte(c[3]),
			}
		}
		attributes[gltf.COLOR_0] = modeler.WriteColor(e.doc, values)
	}

	indicesAccessor := modeler.WriteIndices(e.doc, mesh.Primitives().Indices())

	primitive := &gltf.Primitive{
		Indices:    gltf.Index(indicesAccessor),
		Attributes: attributes,
	}
	if material != nil {
		primitive.Material = gltf.Index(e.exportMaterial(material))
	}

	e.doc.Meshes = append(e.doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{primitive},
	})
	return uint32(len(e.doc.Meshes) - 1), nil
}

// exportMaterial maps the Phong material onto metallic-roughness: the diffuse
// color becomes the base color with the transparency folded into its alpha,
// and the shininess inverts into roughness.
func (e *exporter) exportMaterial(material *scene.Material) uint32 {
	if index, ok := e.materials[material]; ok {
		return index
	}

	roughness := 1 - material.Shininess
	metallic := float32(0)
	gltfMaterial := &gltf.Material{
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{
				material.DiffuseColor[0],
				material.DiffuseColor[1],
				material.DiffuseColor[2],
				1 - material.Transparency,
			},
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
		EmissiveFactor: material.EmissiveColor,
	}

	index := uint32(len(e.doc.Materials))
	e.doc.Materials = append(e.doc.Materials, gltfMaterial)
	e.materials[material] = index
	return index
}

func floatToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
