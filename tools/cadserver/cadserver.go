package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/raw-bytes/cad-import/loader"
	"github.com/raw-bytes/cad-import/web"

	_ "github.com/raw-bytes/cad-import/loader/gltf"
	_ "github.com/raw-bytes/cad-import/loader/off"
	_ "github.com/raw-bytes/cad-import/loader/rvm"
)

func main() {
	var addr, optionsPath string
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&optionsPath, "options", "", "Path to a YAML tessellation options file")
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

	data, err := l.Load(&loader.FileResource{Path: path}, options)
	if err != nil {
		log.Fatal(err)
	}

	if err := web.StartServer(addr, data); err != nil {
		log.Fatal(err)
	}
}
