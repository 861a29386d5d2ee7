package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/scene"

	_ "github.com/raw-bytes/cad-import/loader/gltf"
	_ "github.com/raw-bytes/cad-import/loader/off"
	_ "github.com/raw-bytes/cad-import/loader/rvm"
)

func main() {
	var optionsPath string
	var dump bool
	flag.StringVar(&optionsPath, "options", "", "Path to a YAML tessellation options file")
	flag.BoolVar(&dump, "dump", false, "Dump the full scene structure")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.PrintDefaults()
		return
	}
	path := flag.Arg(0)

	options := loader.DefaultTessellationOptions()
	if optionsPath != "" {
		var err error
		options, err = loader.LoadTessellationOptions(optionsPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	l := loader.ByExtension(ext)
	if l == nil {
		log.Fatalf("no loader for extension %q", ext)
	}
	log.Printf("[cadinfo] loading %s with %q", path, l.Name())

	data, err := l.Load(&loader.FileResource{Path: path}, options)
	if err != nil {
		log.Fatal(err)
	}

	if dump {
		spew.Fdump(os.Stdout, data)
		return
	}

	var numShapes, numParts, numVertices, numTriangles int
	seen := make(map[scene.ShapeID]bool)
	for id := 0; id < data.Tree().Len(); id++ {
		for _, shape := range data.Tree().Node(scene.NodeID(id)).Shapes() {
			if seen[shape.ID()] {
				continue
			}
			seen[shape.ID()] = true
			numShapes++
			for _, part := range shape.Parts() {
				numParts++
				numVertices += part.Mesh.Vertices().Len()
				numTriangles += part.Mesh.Primitives().NumPrimitives()
			}
		}
	}

	fmt.Printf("unit: %gm\n", data.Unit().InMeters())
	fmt.Printf("nodes: %d  shapes: %d  parts: %d\n", data.Tree().Len(), numShapes, numParts)
	fmt.Printf("vertices: %d  triangles: %d\n", numVertices, numTriangles)

	if root := data.Tree().Root(); root != nil {
		printNode(data.Tree(), root.ID(), 0)
	}
}

func printNode(tree *scene.Tree, id scene.NodeID, depth int) {
	node := tree.Node(id)
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), node)
	for _, child := range node.Children() {
		printNode(tree, child, depth+1)
	}
}
