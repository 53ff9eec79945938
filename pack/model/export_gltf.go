package model

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/cache_model_browser/utils/gltfutils"
)

type GLTFModelExported struct {
	GLTFMesh      *gltf.Mesh
	GLTFMeshIndex uint32
}

// ExportGLTF appends model mesh to doc. Corners are not shared between
// triangles because flat normals and uvs are per corner.
func (m *Model) ExportGLTF(doc *gltf.Document) (*GLTFModelExported, error) {
	corners, haveUV := m.exportCorners()
	if len(corners) == 0 {
		return nil, errors.Errorf("model %d has no triangles", m.Id)
	}

	positions := make([][3]float32, len(corners))
	normals := make([][3]float32, len(corners))
	colors := make([][4]uint8, len(corners))
	indices := make([]uint32, len(corners))
	var uvs [][2]float32
	if haveUV {
		uvs = make([][2]float32, len(corners))
	}

	for i, c := range corners {
		positions[i] = c.Position
		normals[i] = c.Normal
		colors[i] = c.Color.RGBA8()
		indices[i] = uint32(i)
		if haveUV {
			uvs[i] = c.UV
		}
	}

	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, positions),
		"COLOR_0":  modeler.WriteColor(doc, colors),
	}
	if m.VertexNormals != nil {
		attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}
	if haveUV {
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
	}
	indicesAccessor := modeler.WriteIndices(doc, indices)

	gltfMesh := &gltf.Mesh{
		Name: fmt.Sprintf("model%d", m.Id),
		Primitives: []*gltf.Primitive{
			{
				Indices:    &indicesAccessor,
				Attributes: attributes,
			},
		},
	}
	doc.Meshes = append(doc.Meshes, gltfMesh)

	return &GLTFModelExported{
		GLTFMesh:      gltfMesh,
		GLTFMeshIndex: uint32(len(doc.Meshes) - 1),
	}, nil
}

func (m *Model) ExportGLTFDefault() (*gltf.Document, error) {
	doc := gltfutils.NewDocument()

	exported, err := m.ExportGLTF(doc)
	if err != nil {
		return nil, err
	}

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})
	for _, primitive := range exported.GLTFMesh.Primitives {
		primitive.Material = gltf.Index(0)
	}
	gltfutils.AddSceneNode(doc, exported.GLTFMesh.Name, exported.GLTFMeshIndex)

	return doc, nil
}
