package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/raw-bytes/cad-import/exporter/gltfexport"
	"github.com/raw-bytes/cad-import/loader"

	_ "github.com/raw-bytes/cad-import/loader/gltf"
	_ "github.com/raw-bytes/cad-import/loader/off"
	_ "github.com/raw-bytes/cad-import/loader/rvm"
)

func main() {
	var out, optionsPath string
	flag.StringVar(&out, "o", "", "Output .glb path (default: input with .glb extension)")
	flag.StringVar(&optionsPath, "options", "", "Path to a YAML tessellation options file")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.PrintDefaults()
		return
	}
	path := flag.Arg(0)
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".glb"
	}

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

	data, err := l.Load(&loader.FileResource{Path: path}, options)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := gltfexport.ExportBinary(f, data); err != nil {
		log.Fatal(err)
	}
	log.Printf("[cad2gltf] wrote %s", out)
}
