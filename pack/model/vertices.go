package model

import (
	"github.com/mogaika/cache_model_browser/utils"
)

const (
	VERTEX_FLAG_X = 1 << iota
	VERTEX_FLAG_Y
	VERTEX_FLAG_Z
)

// decodeVertices restores absolute positions from delta streams.
// Axis without flag bit keeps running value of previous vertex.
func (m *Model) decodeVertices(base *utils.Cursor, l *Layout) error {
	flags := base.At("vertex flags", l.VertexFlagsOffset)
	xs := base.At("vertex x", l.VertexXOffset)
	ys := base.At("vertex y", l.VertexYOffset)
	zs := base.At("vertex z", l.VertexZOffset)
	skins := base.At("vertex skins", l.VertexSkinsOffset)

	var x, y, z int32
	for i := range m.Vertices {
		f := flags.U8()
		if f&VERTEX_FLAG_X != 0 {
			x += xs.SmallSmart()
		}
		if f&VERTEX_FLAG_Y != 0 {
			y += ys.SmallSmart()
		}
		if f&VERTEX_FLAG_Z != 0 {
			z += zs.SmallSmart()
		}

		v := &m.Vertices[i]
		v.X, v.Y, v.Z = x, y, z
		if l.HasVertexSkins {
			v.Skin = skins.U8()
		}
	}

	return cursorsError(flags, xs, ys, zs, skins)
}
