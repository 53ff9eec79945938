package gltfutils

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/mogaika/cache_model_browser/config"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// AddSceneNode appends node with mesh to default scene and returns node index
func AddSceneNode(doc *gltf.Document, name string, mesh uint32) uint32 {
	iNode := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(mesh),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, iNode)
	return iNode
}

// ExportBinary encodes doc as glb. With logs dir configured
// text copy of last export is saved there for inspection.
func ExportBinary(w io.Writer, doc *gltf.Document) error {
	if dir := config.GetLogsDir(); dir != "" {
		os.MkdirAll(filepath.Join(dir, "lastgltf"), 0777)
		if err := gltf.Save(doc, filepath.Join(dir, "lastgltf", "file.gltf")); err != nil {
			log.Printf("[gltf] Failed to save debug copy: %v", err)
		}
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
