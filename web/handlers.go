package web

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mogaika/cache_model_browser/pack"
	"github.com/mogaika/cache_model_browser/utils"
	"github.com/mogaika/cache_model_browser/vfs"
	"github.com/mogaika/cache_model_browser/webutils"
)

// Marshaler is implemented by decoded resources that prefer custom json view
type Marshaler interface {
	Marshal() (interface{}, error)
}

type HttpActioner interface {
	HttpAction(w http.ResponseWriter, r *http.Request, action string)
}

type packEntry struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Decoder bool   `json:"decoder"`
}

func HandlerAjaxPack(w http.ResponseWriter, r *http.Request) {
	files, err := ServerDirectory.List()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	entries := make([]packEntry, 0, len(files))
	for _, name := range files {
		f, err := vfs.DirectoryGetFile(ServerDirectory, name)
		if err != nil {
			// subdirectories are not browsable
			continue
		}
		entries = append(entries, packEntry{Name: name, Size: f.Size(), Decoder: pack.HasHandler(name)})
	}
	webutils.WriteJson(w, entries)
}

func getInstance(w http.ResponseWriter, file string) (interface{}, bool) {
	inst, err := pack.GetInstanceHandler(ServerDirectory, file)
	if err != nil {
		log.Printf("[web] Error getting file from pack: %v", err)
		webutils.WriteError(w, err)
		return nil, false
	}
	return inst, true
}

func HandlerAjaxPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	inst, ok := getInstance(w, file)
	if !ok {
		return
	}
	if m, ok := inst.(Marshaler); ok {
		data, err := m.Marshal()
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		inst = data
	}
	webutils.WriteJson(w, inst)
}

func HandlerActionPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	action := mux.Vars(r)["action"]
	inst, ok := getInstance(w, file)
	if !ok {
		return
	}
	if a, ok := inst.(HttpActioner); ok {
		a.HttpAction(w, r, strings.ToLower(action))
	} else {
		webutils.WriteError(w, fmt.Errorf("File %s has no actions", file))
	}
}

func HandlerDumpPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	f, err := vfs.DirectoryGetFile(ServerDirectory, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	reader, err := vfs.OpenFileAndGetReader(f)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	defer f.Close()
	webutils.WriteFile(w, reader, file)
}

// HandlerSpewPackFile shows decoded resource with all internal fields
func HandlerSpewPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	inst, ok := getInstance(w, file)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	webutils.WriteResult(w, []byte(utils.SDump(inst)))
}
