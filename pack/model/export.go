package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/cache_model_browser/utils"
)

// exportCorner is one triangle corner with all attributes resolved.
// Positions and normals are converted from y down to y up space.
type exportCorner struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    utils.ColorFloat
	UV       mgl32.Vec2
}

func toExportSpace(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], -v[1], -v[2]}
}

// TriangleColor converts hsl colour of triangle, textured triangles are white
func (m *Model) TriangleColor(iTriangle int) utils.ColorFloat {
	t := &m.Triangles[iTriangle]
	var alpha uint8
	if m.Flags.Has(HasAlphas) {
		alpha = t.Alpha
	}
	if m.Flags.Has(HasTextures) && t.Texture != NoTexture {
		return utils.ColorFloat{1, 1, 1, 1 - float32(alpha)/255}
	}
	return utils.NewColorHSL16(t.Color, alpha)
}

// exportCorners returns 3 corners per triangle and whether any triangle has uv
func (m *Model) exportCorners() ([]exportCorner, bool) {
	corners := make([]exportCorner, 0, len(m.Triangles)*3)
	haveUV := false

	for i := range m.Triangles {
		t := &m.Triangles[i]
		faceNormal := m.FaceNormal(i)
		color := m.TriangleColor(i)

		for corner, iVertex := range t.Vertices() {
			c := exportCorner{
				Position: toExportSpace(m.position(iVertex)),
				Color:    color,
			}
			if faceNormal != nil {
				c.Normal = toExportSpace(*faceNormal)
			} else if m.VertexNormals != nil {
				c.Normal = toExportSpace(m.VertexNormals[iVertex])
			}
			if uv, ok := m.CornerUV(i, corner); ok {
				c.UV = uv
				haveUV = true
			}
			corners = append(corners, c)
		}
	}
	return corners, haveUV
}
