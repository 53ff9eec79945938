package model

import (
	"github.com/pkg/errors"

	"github.com/mogaika/cache_model_browser/config"
	"github.com/mogaika/cache_model_browser/utils"
)

type Format int

const (
	FormatOld Format = iota
	FormatNew
)

func (f Format) String() string {
	if f == FormatNew {
		return "new"
	}
	return "old"
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

const (
	NEW_FOOTER_SIZE = 23
	OLD_FOOTER_SIZE = 18

	// header priority value telling that priorities stored per triangle
	PriorityPerTriangle = 0xff

	// bytes used by texture triangles of render types 1..3, type 2 uses extra bytes
	TEXTURE_TRIANGLE_PLANAR_SIZE  = 6
	TEXTURE_TRIANGLE_COMPLEX_SIZE = 17
	TEXTURE_TRIANGLE_TYPE2_EXTRA  = 2
)

// Sniff detects layout by two trailing bytes, both 0xff means new format
func Sniff(data []byte) Format {
	if l := len(data); l >= 2 && data[l-1] == 0xff && data[l-2] == 0xff {
		return FormatNew
	}
	return FormatOld
}

// Layout holds footer values and absolute offset of every segment.
// Segments not present in buffer have zero length, so their offset equals next segment offset.
type Layout struct {
	Format Format

	VertexCount          int
	TriangleCount        int
	TextureTriangleCount int

	HasRenderTypes   bool // new format only
	HasTextures      bool // new: texture id segment, old: combined triangle info segment
	HasAlphas        bool
	HasTriangleSkins bool
	HasVertexSkins   bool
	Priority         uint8

	VertexXLength   int
	VertexYLength   int
	VertexZLength   int
	VertexIdsLength int
	TexCoordsLength int // new format only

	TextureRenderTypes []uint8 // new format only

	TextureRenderTypesOffset int
	VertexFlagsOffset        int
	RenderTypesOffset        int
	TriangleInfoOffset       int // old format combined byte
	TriangleTypesOffset      int
	PrioritiesOffset         int
	TriangleSkinsOffset      int
	VertexSkinsOffset        int
	AlphasOffset             int
	VertexIdsOffset          int
	TexturesOffset           int
	TexCoordsOffset          int
	ColorsOffset             int
	VertexXOffset            int
	VertexYOffset            int
	VertexZOffset            int
	TextureTrianglesOffset   int
	End                      int
}

func (l *Layout) FooterSize() int {
	if l.Format == FormatNew {
		return NEW_FOOTER_SIZE
	}
	return OLD_FOOTER_SIZE
}

func (l *Layout) flags() Flags {
	var f Flags
	if l.HasVertexSkins {
		f |= HasVertexSkins
	}
	if l.HasAlphas {
		f |= HasAlphas
	}
	if l.HasTriangleSkins {
		f |= HasTriangleSkins
	}
	switch l.Format {
	case FormatNew:
		if l.HasRenderTypes {
			f |= HasRenderTypes
		}
		if l.HasTextures {
			f |= HasTextures
			if l.TextureTriangleCount > 0 {
				f |= HasTexCoords
			}
		}
	case FormatOld:
		if l.HasTextures {
			f |= HasRenderTypes | HasTextures | HasTexCoords
		}
	}
	return f
}

// ResolveLayout reads footer and computes segments offsets.
// Order of segments is fixed by format, any reorder breaks every following offset.
func ResolveLayout(data []byte, exlog *utils.Logger) (*Layout, error) {
	l := &Layout{Format: Sniff(data)}
	switch config.GetModelFormat() {
	case config.FormatOld:
		l.Format = FormatOld
	case config.FormatNew:
		l.Format = FormatNew
	}

	if len(data) < l.FooterSize() {
		return nil, errors.Wrapf(ErrMalformedBuffer, "%v format buffer size %d less than footer size %d",
			l.Format, len(data), l.FooterSize())
	}

	footer := utils.NewCursor("footer", data).At("footer", len(data)-l.FooterSize())
	exlog.Printf("%v footer: %s", l.Format, utils.DumpHex(data[len(data)-l.FooterSize():]))
	var err error
	if l.Format == FormatNew {
		err = l.resolveNew(data, footer)
	} else {
		err = l.resolveOld(footer)
	}
	if err != nil {
		return nil, err
	}

	exlog.Printf("%v format: vertices %d triangles %d texture triangles %d priority 0x%.2x",
		l.Format, l.VertexCount, l.TriangleCount, l.TextureTriangleCount, l.Priority)
	exlog.Printf("  flags: render types %v textures %v alphas %v triangle skins %v vertex skins %v",
		l.HasRenderTypes, l.HasTextures, l.HasAlphas, l.HasTriangleSkins, l.HasVertexSkins)
	exlog.Printf("  lengths: x 0x%x y 0x%x z 0x%x ids 0x%x texcoords 0x%x",
		l.VertexXLength, l.VertexYLength, l.VertexZLength, l.VertexIdsLength, l.TexCoordsLength)
	exlog.Printf("  offsets: flags 0x%x rtypes 0x%x info 0x%x ttypes 0x%x prio 0x%x tskins 0x%x vskins 0x%x alpha 0x%x",
		l.VertexFlagsOffset, l.RenderTypesOffset, l.TriangleInfoOffset, l.TriangleTypesOffset,
		l.PrioritiesOffset, l.TriangleSkinsOffset, l.VertexSkinsOffset, l.AlphasOffset)
	exlog.Printf("  offsets: ids 0x%x tex 0x%x texcoords 0x%x colors 0x%x x 0x%x y 0x%x z 0x%x textris 0x%x end 0x%x",
		l.VertexIdsOffset, l.TexturesOffset, l.TexCoordsOffset, l.ColorsOffset,
		l.VertexXOffset, l.VertexYOffset, l.VertexZOffset, l.TextureTrianglesOffset, l.End)

	if limit := len(data) - l.FooterSize(); l.End > limit {
		return nil, errors.Wrapf(ErrMalformedBuffer, "%v format segments end 0x%x overlaps footer at 0x%x",
			l.Format, l.End, limit)
	}
	return l, nil
}

func (l *Layout) resolveNew(data []byte, footer *utils.Cursor) error {
	l.VertexCount = int(footer.U16())
	l.TriangleCount = int(footer.U16())
	l.TextureTriangleCount = int(footer.U8())
	l.HasRenderTypes = footer.U8() == 1
	l.Priority = footer.U8()
	l.HasAlphas = footer.U8() == 1
	l.HasTriangleSkins = footer.U8() == 1
	l.HasTextures = footer.U8() == 1
	l.HasVertexSkins = footer.U8() == 1
	l.VertexXLength = int(footer.U16())
	l.VertexYLength = int(footer.U16())
	l.VertexZLength = int(footer.U16())
	l.VertexIdsLength = int(footer.U16())
	l.TexCoordsLength = int(footer.U16())
	if err := cursorsError(footer); err != nil {
		return err
	}

	var planar, shaped, type2 int
	if l.TextureTriangleCount > 0 {
		if l.TextureTriangleCount > len(data)-NEW_FOOTER_SIZE {
			return errors.Wrapf(ErrMalformedBuffer, "texture triangles count %d exceeds buffer", l.TextureTriangleCount)
		}
		l.TextureRenderTypes = make([]uint8, l.TextureTriangleCount)
		copy(l.TextureRenderTypes, data)
		for _, rt := range l.TextureRenderTypes {
			if rt == 0 {
				planar++
			}
			if rt >= 1 && rt <= 3 {
				shaped++
				if rt == 2 {
					type2++
				}
			}
		}
	}

	pos := 0
	l.TextureRenderTypesOffset = pos
	pos += l.TextureTriangleCount
	l.VertexFlagsOffset = pos
	pos += l.VertexCount
	l.RenderTypesOffset = pos
	if l.HasRenderTypes {
		pos += l.TriangleCount
	}
	l.TriangleTypesOffset = pos
	pos += l.TriangleCount
	l.PrioritiesOffset = pos
	if l.Priority == PriorityPerTriangle {
		pos += l.TriangleCount
	}
	l.TriangleSkinsOffset = pos
	if l.HasTriangleSkins {
		pos += l.TriangleCount
	}
	l.VertexSkinsOffset = pos
	if l.HasVertexSkins {
		pos += l.VertexCount
	}
	l.AlphasOffset = pos
	if l.HasAlphas {
		pos += l.TriangleCount
	}
	l.VertexIdsOffset = pos
	pos += l.VertexIdsLength
	l.TexturesOffset = pos
	if l.HasTextures {
		pos += l.TriangleCount * 2
	}
	l.TexCoordsOffset = pos
	pos += l.TexCoordsLength
	l.ColorsOffset = pos
	pos += l.TriangleCount * 2
	l.VertexXOffset = pos
	pos += l.VertexXLength
	l.VertexYOffset = pos
	pos += l.VertexYLength
	l.VertexZOffset = pos
	pos += l.VertexZLength
	l.TextureTrianglesOffset = pos
	pos += planar * TEXTURE_TRIANGLE_PLANAR_SIZE
	pos += shaped * TEXTURE_TRIANGLE_COMPLEX_SIZE
	pos += type2 * TEXTURE_TRIANGLE_TYPE2_EXTRA
	l.End = pos
	return nil
}

func (l *Layout) resolveOld(footer *utils.Cursor) error {
	l.VertexCount = int(footer.U16())
	l.TriangleCount = int(footer.U16())
	l.TextureTriangleCount = int(footer.U8())
	l.HasTextures = footer.U8() == 1
	l.Priority = footer.U8()
	l.HasAlphas = footer.U8() == 1
	l.HasTriangleSkins = footer.U8() == 1
	l.HasVertexSkins = footer.U8() == 1
	l.VertexXLength = int(footer.U16())
	l.VertexYLength = int(footer.U16())
	l.VertexZLength = int(footer.U16())
	l.VertexIdsLength = int(footer.U16())
	if err := cursorsError(footer); err != nil {
		return err
	}

	pos := 0
	l.VertexFlagsOffset = pos
	pos += l.VertexCount
	l.TriangleTypesOffset = pos
	pos += l.TriangleCount
	l.PrioritiesOffset = pos
	if l.Priority == PriorityPerTriangle {
		pos += l.TriangleCount
	}
	l.TriangleSkinsOffset = pos
	if l.HasTriangleSkins {
		pos += l.TriangleCount
	}
	l.TriangleInfoOffset = pos
	if l.HasTextures {
		pos += l.TriangleCount
	}
	l.VertexSkinsOffset = pos
	if l.HasVertexSkins {
		pos += l.VertexCount
	}
	l.AlphasOffset = pos
	if l.HasAlphas {
		pos += l.TriangleCount
	}
	l.VertexIdsOffset = pos
	pos += l.VertexIdsLength
	l.ColorsOffset = pos
	pos += l.TriangleCount * 2
	l.TextureTrianglesOffset = pos
	pos += l.TextureTriangleCount * TEXTURE_TRIANGLE_PLANAR_SIZE
	l.VertexXOffset = pos
	pos += l.VertexXLength
	l.VertexYOffset = pos
	pos += l.VertexYLength
	l.VertexZOffset = pos
	pos += l.VertexZLength
	l.End = pos
	return nil
}
