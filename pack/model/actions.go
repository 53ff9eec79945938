package model

import (
	"fmt"
	"log"
	"net/http"

	"github.com/mogaika/cache_model_browser/utils/gltfutils"
	"github.com/mogaika/cache_model_browser/webutils"
)

func (m *Model) HttpAction(w http.ResponseWriter, r *http.Request, action string) {
	name := fmt.Sprintf("%d", m.Id)
	switch action {
	case "fbx":
		webutils.WriteFileHeaders(w, name+".fbx")
		if err := m.ExportFbxDefault(name + ".fbx").Write(w); err != nil {
			log.Printf("[model] Error when exporting model as fbx: %v", err)
		}
	case "obj":
		webutils.WriteFileHeaders(w, name+".obj")
		if err := m.ExportObj(w); err != nil {
			log.Printf("[model] Error when exporting model as obj: %v", err)
		}
	case "gltf":
		doc, err := m.ExportGLTFDefault()
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		webutils.WriteFileHeaders(w, name+".glb")
		if err := gltfutils.ExportBinary(w, doc); err != nil {
			log.Printf("[model] Failed to encode gltf: %v", err)
		}
	case "yaml":
		webutils.WriteYamlFile(w, m, name)
	default:
		webutils.WriteError(w, fmt.Errorf("Unknown model action %q", action))
	}
}
