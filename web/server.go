// Package web serves a loaded scene for inspection: the tree and its
// statistics as JSON, and a binary glTF download of the whole model.
package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/raw-bytes/cad-import/scene"
)

var serverData *scene.CADData

// StartServer serves the given CAD data on addr until the listener fails.
func StartServer(addr string, data *scene.CADData) error {
	serverData = data

	r := mux.NewRouter()
	r.HandleFunc("/json/tree", HandlerTree)
	r.HandleFunc("/json/stats", HandlerStats)
	r.HandleFunc("/export/gltf", HandlerExportGLTF)

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
