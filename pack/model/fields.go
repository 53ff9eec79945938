package model

import (
	"github.com/pkg/errors"

	"github.com/mogaika/cache_model_browser/utils"
)

const (
	OLD_INFO_FLAT           = 1 << 0
	OLD_INFO_TEXTURED       = 1 << 1
	OLD_INFO_TEXCOORD_SHIFT = 2

	// colour slot value that marks missing texture in old format
	OLD_NO_TEXTURE_COLOR = 0xffff
)

// oldFieldsInfo collects what old format combined bytes actually used
type oldFieldsInfo struct {
	anyTexture    bool
	anyRenderType bool
}

func (m *Model) decodeTriangleFieldsNew(base *utils.Cursor, l *Layout) error {
	colors := base.At("colors", l.ColorsOffset)
	renderTypes := base.At("render types", l.RenderTypesOffset)
	priorities := base.At("priorities", l.PrioritiesOffset)
	alphas := base.At("alphas", l.AlphasOffset)
	skins := base.At("triangle skins", l.TriangleSkinsOffset)
	textures := base.At("textures", l.TexturesOffset)
	texCoords := base.At("texcoords", l.TexCoordsOffset)

	for i := range m.Triangles {
		t := &m.Triangles[i]
		t.Color = colors.U16()
		if m.Priority.PerTriangle {
			t.Priority = priorities.U8()
		}
		if l.HasRenderTypes {
			t.RenderType = RenderType(renderTypes.U8())
		}
		if l.HasAlphas {
			t.Alpha = alphas.U8()
		}
		if l.HasTriangleSkins {
			t.Skin = skins.U8()
		}
		if l.HasTextures {
			t.Texture = int32(textures.U16()) - 1
		}
		if m.Flags.Has(HasTexCoords) && t.Texture != NoTexture {
			t.TexCoord = int32(texCoords.U8()) - 1
		}
	}

	return cursorsError(colors, renderTypes, priorities, alphas, skins, textures, texCoords)
}

// decodeTriangleFieldsOld unpacks combined info byte into same per triangle fields new format has
func (m *Model) decodeTriangleFieldsOld(base *utils.Cursor, l *Layout) (oldFieldsInfo, error) {
	var info oldFieldsInfo

	colors := base.At("colors", l.ColorsOffset)
	infos := base.At("triangle info", l.TriangleInfoOffset)
	priorities := base.At("priorities", l.PrioritiesOffset)
	alphas := base.At("alphas", l.AlphasOffset)
	skins := base.At("triangle skins", l.TriangleSkinsOffset)

	for i := range m.Triangles {
		t := &m.Triangles[i]
		t.Color = colors.U16()
		if l.HasTextures {
			b := infos.U8()
			if b&OLD_INFO_FLAT != 0 {
				t.RenderType = RenderFlat
				info.anyRenderType = true
			}
			if b&OLD_INFO_TEXTURED != 0 {
				t.TexCoord = int32(b >> OLD_INFO_TEXCOORD_SHIFT)
				if t.Color != OLD_NO_TEXTURE_COLOR {
					t.Texture = int32(t.Color)
					info.anyTexture = true
				}
				t.Color = OldTexturedColor
			}
		}
		if m.Priority.PerTriangle {
			t.Priority = priorities.U8()
		}
		if l.HasAlphas {
			t.Alpha = alphas.U8()
		}
		if l.HasTriangleSkins {
			t.Skin = skins.U8()
		}
	}

	return info, cursorsError(colors, infos, priorities, alphas, skins)
}

// decodeTextureTrianglesNew reads vertex triples only for planar texture triangles,
// other render types keep their data in segments this decoder does not interpret
func (m *Model) decodeTextureTrianglesNew(base *utils.Cursor, l *Layout) error {
	vertices := base.At("texture triangles", l.TextureTrianglesOffset)
	for i := range m.TextureTriangles {
		tt := &m.TextureTriangles[i]
		tt.RenderType = l.TextureRenderTypes[i]
		if tt.RenderType == 0 {
			tt.A, tt.B, tt.C = vertices.U16(), vertices.U16(), vertices.U16()
		}
	}
	return cursorsError(vertices)
}

func (m *Model) decodeTextureTrianglesOld(base *utils.Cursor, l *Layout) error {
	vertices := base.At("texture triangles", l.TextureTrianglesOffset)
	for i := range m.TextureTriangles {
		tt := &m.TextureTriangles[i]
		tt.RenderType = 0
		tt.A, tt.B, tt.C = vertices.U16(), vertices.U16(), vertices.U16()
	}
	return cursorsError(vertices)
}

func (m *Model) validateReferences() error {
	vc := int32(len(m.Vertices))
	for i := range m.Triangles {
		t := &m.Triangles[i]
		for _, v := range t.Vertices() {
			if v < 0 || v >= vc {
				return errors.Wrapf(ErrInvalidReference, "triangle %d vertex %d out of [0,%d)", i, v, vc)
			}
		}
		if t.TexCoord != NoTexCoord && (t.TexCoord < 0 || int(t.TexCoord) >= len(m.TextureTriangles)) {
			return errors.Wrapf(ErrInvalidReference, "triangle %d texcoord %d out of [0,%d)",
				i, t.TexCoord, len(m.TextureTriangles))
		}
	}
	for i := range m.TextureTriangles {
		tt := &m.TextureTriangles[i]
		if tt.RenderType != 0 {
			continue
		}
		for _, v := range [3]uint16{tt.A, tt.B, tt.C} {
			if int32(v) >= vc {
				return errors.Wrapf(ErrInvalidReference, "texture triangle %d vertex %d out of [0,%d)", i, v, vc)
			}
		}
	}
	return nil
}

// cleanupOld drops references the default mapping reproduces anyway
// and presence flags nothing in the model uses
func (m *Model) cleanupOld(info oldFieldsInfo) {
	if m.Flags.Has(HasTexCoords) {
		anyTexCoord := false
		for i := range m.Triangles {
			t := &m.Triangles[i]
			if t.TexCoord == NoTexCoord {
				continue
			}
			tt := &m.TextureTriangles[t.TexCoord]
			if int32(tt.A) == t.A && int32(tt.B) == t.B && int32(tt.C) == t.C {
				t.TexCoord = NoTexCoord
			} else {
				anyTexCoord = true
			}
		}
		if !anyTexCoord {
			m.Flags &^= HasTexCoords
		}
	}
	if !info.anyTexture {
		m.Flags &^= HasTextures
	}
	if !info.anyRenderType {
		m.Flags &^= HasRenderTypes
	}
}
