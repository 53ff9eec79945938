package model

import (
	"fmt"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"

	"github.com/mogaika/cache_model_browser/utils/fbxbuilder"
)

type FbxExportModel struct {
	FbxGeometryId int64
	FbxGeometry   *fbx.Node
	FbxModelId    int64
	FbxModel      *fbx.Node
}

// ExportFbx adds geometry and model nodes. Positions stay indexed,
// normals colours and uvs are mapped by polygon vertex.
func (m *Model) ExportFbx(f *fbxbuilder.FBXBuilder) *FbxExportModel {
	if cached := f.GetCached(m.Id); cached != nil {
		return cached.(*FbxExportModel)
	}

	fem := &FbxExportModel{}
	defer f.AddCache(m.Id, fem)

	corners, haveUV := m.exportCorners()

	vertices := make([]float64, 0, len(m.Vertices)*3)
	for i := range m.Vertices {
		p := toExportSpace(m.position(int32(i)))
		vertices = append(vertices, float64(p[0]), float64(p[1]), float64(p[2]))
	}

	indexes := make([]int32, 0, len(corners))
	for i := range m.Triangles {
		t := &m.Triangles[i]
		// last index of polygon is stored as -(index)-1
		indexes = append(indexes, t.A, t.B, -(t.C)-1)
	}

	normals := make([]float64, 0, len(corners)*3)
	rgba := make([]float64, 0, len(corners)*4)
	uv := make([]float64, 0, len(corners)*2)
	uvindexes := make([]int32, 0, len(corners))
	for i, c := range corners {
		normals = append(normals, float64(c.Normal[0]), float64(c.Normal[1]), float64(c.Normal[2]))
		rgba = append(rgba, float64(c.Color[0]), float64(c.Color[1]), float64(c.Color[2]), float64(c.Color[3]))
		if haveUV {
			uv = append(uv, float64(c.UV[0]), float64(1-c.UV[1]))
			uvindexes = append(uvindexes, int32(i))
		}
	}

	fem.FbxGeometryId = f.GenerateId()

	geometryLayer := bfbx73.Layer(0).AddNodes(
		bfbx73.Version(100),
	)

	geometry := bfbx73.Geometry(fem.FbxGeometryId, "\x00\x01Geometry", "Mesh").AddNodes(
		bfbx73.Properties70().AddNodes(
			bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
		),
		bfbx73.GeometryVersion(124),
		bfbx73.Vertices(vertices),
		bfbx73.PolygonVertexIndex(indexes),
		geometryLayer,
	)

	if m.VertexNormals != nil {
		geometry.AddNode(
			bfbx73.LayerElementNormal(0).AddNodes(
				bfbx73.Version(101),
				bfbx73.Name(""),
				bfbx73.MappingInformationType("ByPolygonVertex"),
				bfbx73.ReferenceInformationType("Direct"),
				bfbx73.Normals(normals),
			),
		)
		geometryLayer.AddNode(
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementNormal"),
				bfbx73.TypedIndex(0),
			),
		)
	}

	geometry.AddNode(
		bfbx73.LayerElementColor(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByPolygonVertex"),
			bfbx73.ReferenceInformationType("Direct"),
			bfbx73.Colors(rgba),
		),
	)
	geometryLayer.AddNode(
		bfbx73.LayerElement().AddNodes(
			bfbx73.Type("LayerElementColor"),
			bfbx73.TypedIndex(0),
		),
	)

	if haveUV {
		geometry.AddNode(
			bfbx73.LayerElementUV(0).AddNodes(
				bfbx73.Version(101),
				bfbx73.Name(""),
				bfbx73.MappingInformationType("ByPolygonVertex"),
				bfbx73.ReferenceInformationType("IndexToDirect"),
				bfbx73.UV(uv),
				bfbx73.UVIndex(uvindexes),
			),
		)
		geometryLayer.AddNode(
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementUV"),
				bfbx73.TypedIndex(0),
			),
		)
	}

	geometry.AddNode(
		bfbx73.LayerElementMaterial(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("AllSame"),
			bfbx73.ReferenceInformationType("IndexToDirect"),
			bfbx73.Materials([]int32{0}),
		),
	)
	geometryLayer.AddNode(
		bfbx73.LayerElement().AddNodes(
			bfbx73.Type("LayerElementMaterial"),
			bfbx73.TypedIndex(0),
		),
	)

	fem.FbxGeometry = geometry
	fem.FbxModelId = f.GenerateId()
	fem.FbxModel = bfbx73.Model(fem.FbxModelId, fmt.Sprintf("model%d\x00\x01Model", m.Id), "Mesh").AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("InheritType", "enum", "", "", int32(1)),
			bfbx73.P("DefaultAttributeIndex", "int", "Integer", "", int32(0)),
			bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", float64(0), float64(0), float64(0)),
			bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A", float64(0), float64(0), float64(0)),
			bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A", float64(1), float64(1), float64(1)),
		),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	)

	f.AddObjects(fem.FbxModel, geometry)
	f.AddConnections(bfbx73.C("OO", fem.FbxGeometryId, fem.FbxModelId))

	return fem
}

func (m *Model) ExportFbxDefault(name string) *fbxbuilder.FBXBuilder {
	f := fbxbuilder.NewFBXBuilder(name)
	fem := m.ExportFbx(f)
	f.AddConnections(bfbx73.C("OO", fem.FbxModelId, 0))
	return f
}
