package model

import (
	"github.com/mogaika/cache_model_browser/utils"
)

type testTextureTriangle struct {
	renderType uint8
	a, b, c    uint16
}

// testModel describes model buffer content, nil slices are absent segments
type testModel struct {
	vertices    [][3]int
	allAxes     bool // set every axis flag even for zero delta
	vertexSkins []uint8

	ops      []uint8 // triangle opcodes, len is triangle count
	idDeltas []int

	colors      []uint16
	renderTypes []uint8
	priority    uint8
	priorities  []uint8
	alphas      []uint8
	skins       []uint8
	textures    []int   // new format, -1 none
	texCoords   []int   // new format, written only for textured triangles
	infos       []uint8 // old format combined byte

	textureTriangles []testTextureTriangle
}

// freshTriangles encodes every triangle with opcode 1
func (tm *testModel) freshTriangles(tris ...[3]int) *testModel {
	last := 0
	for _, t := range tris {
		tm.ops = append(tm.ops, TRIANGLE_FRESH)
		tm.idDeltas = append(tm.idDeltas, t[0]-last, t[1]-t[0], t[2]-t[1])
		last = t[2]
	}
	return tm
}

func (tm *testModel) triangleCount() int {
	return len(tm.ops)
}

func (tm *testModel) encodeVertices() (flags, xs, ys, zs []byte) {
	var prev [3]int
	for _, v := range tm.vertices {
		var f byte
		for axis, out := range []*[]byte{&xs, &ys, &zs} {
			d := v[axis] - prev[axis]
			if d != 0 || tm.allAxes {
				f |= 1 << uint(axis)
				*out = utils.AppendSmallSmart(*out, d)
			}
		}
		prev = v
		flags = append(flags, f)
	}
	return
}

func (tm *testModel) encodeIds() []byte {
	var ids []byte
	for _, d := range tm.idDeltas {
		ids = utils.AppendSmallSmart(ids, d)
	}
	return ids
}

func (tm *testModel) encodeColors() []byte {
	var colors []byte
	for i := 0; i < tm.triangleCount(); i++ {
		var c uint16
		if tm.colors != nil {
			c = tm.colors[i]
		}
		colors = utils.AppendU16(colors, c)
	}
	return colors
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func appendFooterLengths(b []byte, lengths ...int) []byte {
	for _, l := range lengths {
		b = utils.AppendU16(b, uint16(l))
	}
	return b
}

func (tm *testModel) encodeNew() []byte {
	flags, xs, ys, zs := tm.encodeVertices()
	ids := tm.encodeIds()

	var texRenderTypes, planar, shaped []byte
	for _, tt := range tm.textureTriangles {
		texRenderTypes = append(texRenderTypes, tt.renderType)
		switch tt.renderType {
		case 0:
			planar = utils.AppendU16(planar, tt.a)
			planar = utils.AppendU16(planar, tt.b)
			planar = utils.AppendU16(planar, tt.c)
		case 1, 3:
			shaped = append(shaped, make([]byte, TEXTURE_TRIANGLE_COMPLEX_SIZE)...)
		case 2:
			shaped = append(shaped, make([]byte, TEXTURE_TRIANGLE_COMPLEX_SIZE+TEXTURE_TRIANGLE_TYPE2_EXTRA)...)
		}
	}

	var textures, texCoords []byte
	for i := range tm.textures {
		textures = utils.AppendU16(textures, uint16(tm.textures[i]+1))
		if tm.texCoords != nil && len(tm.textureTriangles) > 0 && tm.textures[i] != NoTexture {
			texCoords = append(texCoords, byte(tm.texCoords[i]+1))
		}
	}

	var b []byte
	b = append(b, texRenderTypes...)
	b = append(b, flags...)
	b = append(b, tm.renderTypes...)
	b = append(b, tm.ops...)
	if tm.priority == PriorityPerTriangle {
		b = append(b, tm.priorities...)
	}
	b = append(b, tm.skins...)
	b = append(b, tm.vertexSkins...)
	b = append(b, tm.alphas...)
	b = append(b, ids...)
	b = append(b, textures...)
	b = append(b, texCoords...)
	b = append(b, tm.encodeColors()...)
	b = append(b, xs...)
	b = append(b, ys...)
	b = append(b, zs...)
	b = append(b, planar...)
	b = append(b, shaped...)

	b = utils.AppendU16(b, uint16(len(tm.vertices)))
	b = utils.AppendU16(b, uint16(tm.triangleCount()))
	b = append(b,
		byte(len(tm.textureTriangles)),
		boolByte(tm.renderTypes != nil),
		tm.priority,
		boolByte(tm.alphas != nil),
		boolByte(tm.skins != nil),
		boolByte(tm.textures != nil),
		boolByte(tm.vertexSkins != nil))
	b = appendFooterLengths(b, len(xs), len(ys), len(zs), len(ids), len(texCoords))
	return append(b, 0xff, 0xff)
}

func (tm *testModel) encodeOld() []byte {
	flags, xs, ys, zs := tm.encodeVertices()
	ids := tm.encodeIds()

	var b []byte
	b = append(b, flags...)
	b = append(b, tm.ops...)
	if tm.priority == PriorityPerTriangle {
		b = append(b, tm.priorities...)
	}
	b = append(b, tm.skins...)
	b = append(b, tm.infos...)
	b = append(b, tm.vertexSkins...)
	b = append(b, tm.alphas...)
	b = append(b, ids...)
	b = append(b, tm.encodeColors()...)
	for _, tt := range tm.textureTriangles {
		b = utils.AppendU16(b, tt.a)
		b = utils.AppendU16(b, tt.b)
		b = utils.AppendU16(b, tt.c)
	}
	b = append(b, xs...)
	b = append(b, ys...)
	b = append(b, zs...)

	b = utils.AppendU16(b, uint16(len(tm.vertices)))
	b = utils.AppendU16(b, uint16(tm.triangleCount()))
	b = append(b,
		byte(len(tm.textureTriangles)),
		boolByte(tm.infos != nil),
		tm.priority,
		boolByte(tm.alphas != nil),
		boolByte(tm.skins != nil),
		boolByte(tm.vertexSkins != nil))
	return appendFooterLengths(b, len(xs), len(ys), len(zs), len(ids))
}
