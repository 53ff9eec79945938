package web

import (
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/cache_model_browser/status"
	"github.com/mogaika/cache_model_browser/vfs"
)

var ServerDirectory vfs.Directory

// NewRouter builds browser routes, static files served only when webPath set
func NewRouter(webPath string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/action/{file}/{action}", HandlerActionPackFile)
	r.HandleFunc("/json/pack/{file}", HandlerAjaxPackFile)
	r.HandleFunc("/json/pack", HandlerAjaxPack)
	r.HandleFunc("/dump/pack/{file}", HandlerDumpPackFile)
	r.HandleFunc("/spew/pack/{file}", HandlerSpewPackFile)
	r.HandleFunc("/ws/status", status.ServeWs)

	if webPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))
	}
	return r
}

func StartServer(addr string, d vfs.Directory, webPath string) error {
	ServerDirectory = d

	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(NewRouter(webPath))
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
