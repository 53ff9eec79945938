package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/cache_model_browser/utils"
)

// TriangleUV holds texture coordinates of triangle corners in A, B, C order
type TriangleUV struct {
	U [3]float32
	V [3]float32
}

var defaultTriangleUV = TriangleUV{
	U: [3]float32{0, 1, 0},
	V: [3]float32{1, 1, 0},
}

// ComputeTextureCoordinates fills TextureUVs for textured triangles.
// Entry stays nil for untextured triangles and for degenerate texture triangles.
func (m *Model) ComputeTextureCoordinates() {
	m.TextureUVs = nil
	if !m.Flags.Has(HasTextures) {
		return
	}
	m.TextureUVs = make([]*TriangleUV, len(m.Triangles))

	for i := range m.Triangles {
		t := &m.Triangles[i]
		if t.Texture == NoTexture {
			continue
		}
		if t.TexCoord == NoTexCoord {
			uv := defaultTriangleUV
			m.TextureUVs[i] = &uv
			continue
		}

		tt := &m.TextureTriangles[t.TexCoord]
		if tt.RenderType != 0 {
			// only planar mapping is projected, others keep zero coordinates
			m.TextureUVs[i] = &TriangleUV{}
			continue
		}
		m.TextureUVs[i] = m.planarUV(t, tt)
	}
}

// planarUV solves offset = u*e1 + v*e2 for every corner in reciprocal basis of texture triangle
func (m *Model) planarUV(t *Triangle, tt *TextureTriangle) *TriangleUV {
	origin := m.position(int32(tt.A))
	e1 := m.position(int32(tt.B)).Sub(origin)
	e2 := m.position(int32(tt.C)).Sub(origin)
	n := e1.Cross(e2)

	dualU := e2.Cross(n)
	scaleU := 1.0 / dualU.Dot(e1)
	dualV := e1.Cross(n)
	scaleV := 1.0 / dualV.Dot(e2)

	if !utils.IsFinite32(scaleU) || !utils.IsFinite32(scaleV) {
		return nil
	}

	var uv TriangleUV
	for corner, iVertex := range t.Vertices() {
		offset := m.position(iVertex).Sub(origin)
		uv.U[corner] = dualU.Dot(offset) * scaleU
		uv.V[corner] = dualV.Dot(offset) * scaleV
	}
	return &uv
}

// CornerUV returns texture coordinate of triangle corner, false when triangle has no mapping
func (m *Model) CornerUV(iTriangle int, corner int) (mgl32.Vec2, bool) {
	if m.TextureUVs == nil || m.TextureUVs[iTriangle] == nil {
		return mgl32.Vec2{}, false
	}
	uv := m.TextureUVs[iTriangle]
	return mgl32.Vec2{uv.U[corner], uv.V[corner]}, true
}
