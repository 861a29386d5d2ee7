package web

import (
	"bytes"
	"net/http"

	"github.com/pkg/errors"

	"github.com/raw-bytes/cad-import/exporter/gltfexport"
	"github.com/raw-bytes/cad-import/scene"
	"github.com/raw-bytes/cad-import/webutils"
)

type jsonShapePart struct {
	NumVertices  int  `json:"numVertices"`
	NumTriangles int  `json:"numTriangles"`
	HasMaterial  bool `json:"hasMaterial"`
}

type jsonShape struct {
	ID    uint64          `json:"id"`
	Parts []jsonShapePart `json:"parts"`
}

type jsonNode struct {
	ID       uint32      `json:"id"`
	Label    string      `json:"label"`
	Shapes   []jsonShape `json:"shapes,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

func treeToJson(tree *scene.Tree, id scene.NodeID) *jsonNode {
	node := tree.Node(id)

	jn := &jsonNode{
		ID:    uint32(id),
		Label: node.Label(),
	}
	for _, shape := range node.Shapes() {
		js := jsonShape{ID: uint64(shape.ID())}
		for _, part := range shape.Parts() {
			js.Parts = append(js.Parts, jsonShapePart{
				NumVertices:  part.Mesh.Vertices().Len(),
				NumTriangles: part.Mesh.Primitives().NumPrimitives(),
				HasMaterial:  part.Material != nil,
			})
		}
		jn.Shapes = append(jn.Shapes, js)
	}
	for _, child := range node.Children() {
		jn.Children = append(jn.Children, treeToJson(tree, child))
	}
	return jn
}

func HandlerTree(w http.ResponseWriter, r *http.Request) {
	root, ok := serverData.Tree().RootID()
	if !ok {
		webutils.WriteError(w, errors.New("scene tree is empty"))
		return
	}
	webutils.WriteJson(w, treeToJson(serverData.Tree(), root))
}

type jsonStats struct {
	NumNodes     int     `json:"numNodes"`
	NumShapes    int     `json:"numShapes"`
	NumParts     int     `json:"numParts"`
	NumVertices  int     `json:"numVertices"`
	NumTriangles int     `json:"numTriangles"`
	UnitInMeters float64 `json:"unitInMeters"`
}

// Stats walks the tree counting shapes once even when several nodes share
// them, matching what an exporter would emit.
func Stats(data *scene.CADData) jsonStats {
	stats := jsonStats{
		NumNodes:     data.Tree().Len(),
		UnitInMeters: data.Unit().InMeters(),
	}

	seen := make(map[scene.ShapeID]bool)
	for id := 0; id < data.Tree().Len(); id++ {
		for _, shape := range data.Tree().Node(scene.NodeID(id)).Shapes() {
			if seen[shape.ID()] {
				continue
			}
			seen[shape.ID()] = true

			stats.NumShapes++
			for _, part := range shape.Parts() {
				stats.NumParts++
				stats.NumVertices += part.Mesh.Vertices().Len()
				stats.NumTriangles += part.Mesh.Primitives().NumPrimitives()
			}
		}
	}
	return stats
}

func HandlerStats(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, Stats(serverData))
}

func HandlerExportGLTF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := gltfexport.ExportBinary(&buf, serverData); err != nil {
		webutils.WriteError(w, errors.Wrap(err, "failed to export"))
		return
	}
	webutils.WriteFile(w, &buf, "model.glb")
}
