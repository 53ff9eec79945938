package model

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vertexPositions(m *Model) [][3]int {
	result := make([][3]int, len(m.Vertices))
	for i, v := range m.Vertices {
		result[i] = [3]int{int(v.X), int(v.Y), int(v.Z)}
	}
	return result
}

func triangleIndexes(m *Model) [][3]int32 {
	result := make([][3]int32, len(m.Triangles))
	for i := range m.Triangles {
		result[i] = m.Triangles[i].Vertices()
	}
	return result
}

func TestDecodeNewMinimal(t *testing.T) {
	tm := &testModel{
		// deltas (10,0,0) (0,10,0) (0,0,10) all flagged
		vertices: [][3]int{{10, 0, 0}, {10, 10, 0}, {10, 10, 10}},
		allAxes:  true,
		ops:      []uint8{TRIANGLE_FRESH},
		idDeltas: []int{0, 1, 1},
	}
	data := tm.encodeNew()
	if Sniff(data) != FormatNew {
		t.Fatalf("Sniff()=%v; expected new", Sniff(data))
	}

	m, err := Decode(1, data, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got := vertexPositions(m); !reflect.DeepEqual(got, tm.vertices) {
		t.Errorf("vertices=%v; expected %v", got, tm.vertices)
	}
	if got := triangleIndexes(m); !reflect.DeepEqual(got, [][3]int32{{0, 1, 2}}) {
		t.Errorf("triangles=%v; expected [[0 1 2]]", got)
	}
	if m.Flags != 0 {
		t.Errorf("flags=%v; expected none", m.Flags)
	}
	if m.Priority.PerTriangle || m.Priority.Value != 0 {
		t.Errorf("priority=%+v; expected scalar 0", m.Priority)
	}

	// AB=(0,10,0) AC=(0,10,10) => cross (100,0,0)
	for i, n := range m.VertexNormals {
		if !n.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
			t.Errorf("VertexNormals[%d]=%v; expected (1,0,0)", i, n)
		}
	}
	if m.FaceNormals != nil {
		t.Errorf("FaceNormals=%v; expected none", m.FaceNormals)
	}
	if m.TextureUVs != nil {
		t.Errorf("TextureUVs=%v; expected none", m.TextureUVs)
	}
}

func TestDecodeVertexCopyForward(t *testing.T) {
	tm := (&testModel{
		vertices: [][3]int{{5, 0, 0}, {5, 3, 0}, {5, 3, 0}, {-200, 3, 700}},
	}).freshTriangles([3]int{0, 1, 3})

	for _, data := range [][]byte{tm.encodeNew(), tm.encodeOld()} {
		m, err := NewFromData(0, data, nil)
		if err != nil {
			t.Fatalf("NewFromData(%v): %v", Sniff(data), err)
		}
		if got := vertexPositions(m); !reflect.DeepEqual(got, tm.vertices) {
			t.Errorf("%v vertices=%v; expected %v", m.Format, got, tm.vertices)
		}
	}
}

func TestDecodeTopologyOpcodes(t *testing.T) {
	tm := &testModel{
		vertices: make([][3]int, 5),
		ops:      []uint8{TRIANGLE_FRESH, TRIANGLE_KEEP_FIRST, TRIANGLE_KEEP_LAST, TRIANGLE_SWAP, 9},
		idDeltas: []int{0, 1, 1, 1, 1, -3},
	}
	expected := [][3]int32{
		{0, 1, 2},
		{0, 2, 3},
		{3, 2, 4},
		{2, 3, 1},
		{0, 0, 0},
	}

	for _, data := range [][]byte{tm.encodeNew(), tm.encodeOld()} {
		m, err := NewFromData(0, data, nil)
		if err != nil {
			t.Fatalf("NewFromData(%v): %v", Sniff(data), err)
		}
		if got := triangleIndexes(m); !reflect.DeepEqual(got, expected) {
			t.Errorf("%v triangles=%v; expected %v", m.Format, got, expected)
		}

		again, err := NewFromData(0, data, nil)
		if err != nil {
			t.Fatalf("NewFromData(%v) second run: %v", Sniff(data), err)
		}
		if !reflect.DeepEqual(again.Triangles, m.Triangles) {
			t.Errorf("%v second decode differs: %v vs %v", m.Format, again.Triangles, m.Triangles)
		}
	}
}

func TestDecodeNewFields(t *testing.T) {
	tm := (&testModel{
		vertices:    [][3]int{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}, {0, 0, 100}},
		vertexSkins: []uint8{1, 2, 3, 4},
		colors:      []uint16{0x1234, 0xfffe, 7},
		renderTypes: []uint8{0, 1, 2},
		priority:    PriorityPerTriangle,
		priorities:  []uint8{5, 6, 7},
		alphas:      []uint8{8, 9, 10},
		skins:       []uint8{11, 12, 13},
		textures:    []int{3, -1, 40},
		texCoords:   []int{1, 0, -1},
		textureTriangles: []testTextureTriangle{
			{renderType: 2},
			{renderType: 0, a: 3, b: 2, c: 1},
		},
	}).freshTriangles([3]int{0, 1, 2}, [3]int{1, 2, 3}, [3]int{0, 2, 3})

	m, err := NewFromData(9, tm.encodeNew(), nil)
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}

	expectedFlags := HasRenderTypes | HasAlphas | HasTriangleSkins | HasTextures | HasTexCoords | HasVertexSkins
	if m.Flags != expectedFlags {
		t.Errorf("flags=%v; expected %v", m.Flags, expectedFlags)
	}
	if !m.Priority.PerTriangle {
		t.Errorf("priority=%+v; expected per triangle", m.Priority)
	}

	for i, v := range m.Vertices {
		if v.Skin != tm.vertexSkins[i] {
			t.Errorf("Vertices[%d].Skin=%d; expected %d", i, v.Skin, tm.vertexSkins[i])
		}
	}

	expectedTexCoords := []int32{1, NoTexCoord, NoTexCoord}
	for i := range m.Triangles {
		tr := &m.Triangles[i]
		if tr.Color != tm.colors[i] {
			t.Errorf("Triangles[%d].Color=%#x; expected %#x", i, tr.Color, tm.colors[i])
		}
		if tr.RenderType != RenderType(tm.renderTypes[i]) {
			t.Errorf("Triangles[%d].RenderType=%d; expected %d", i, tr.RenderType, tm.renderTypes[i])
		}
		if tr.Priority != tm.priorities[i] || tr.Alpha != tm.alphas[i] || tr.Skin != tm.skins[i] {
			t.Errorf("Triangles[%d] priority/alpha/skin=%d/%d/%d; expected %d/%d/%d", i,
				tr.Priority, tr.Alpha, tr.Skin, tm.priorities[i], tm.alphas[i], tm.skins[i])
		}
		if tr.Texture != int32(tm.textures[i]) {
			t.Errorf("Triangles[%d].Texture=%d; expected %d", i, tr.Texture, tm.textures[i])
		}
		if tr.TexCoord != expectedTexCoords[i] {
			t.Errorf("Triangles[%d].TexCoord=%d; expected %d", i, tr.TexCoord, expectedTexCoords[i])
		}
	}

	expectedTT := []TextureTriangle{
		{RenderType: 2},
		{RenderType: 0, A: 3, B: 2, C: 1},
	}
	if !reflect.DeepEqual(m.TextureTriangles, expectedTT) {
		t.Errorf("TextureTriangles=%v; expected %v", m.TextureTriangles, expectedTT)
	}
}

func TestDecodeNewTexturesWithoutTextureTriangles(t *testing.T) {
	tm := (&testModel{
		vertices: [][3]int{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}},
		textures: []int{4},
	}).freshTriangles([3]int{0, 1, 2})

	m, err := Decode(0, tm.encodeNew(), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Flags.Has(HasTexCoords) {
		t.Errorf("flags=%v; texcoords must be absent without texture triangles", m.Flags)
	}
	if m.Triangles[0].Texture != 4 || m.Triangles[0].TexCoord != NoTexCoord {
		t.Errorf("triangle=%+v; expected texture 4 without texcoord", m.Triangles[0])
	}
	if uv := m.TextureUVs[0]; uv == nil || *uv != defaultTriangleUV {
		t.Errorf("TextureUVs[0]=%v; expected default mapping", uv)
	}
}

func TestDecodeOldCombinedInfo(t *testing.T) {
	tm := (&testModel{
		vertices: [][3]int{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}},
		colors:   []uint16{55},
		infos:    []uint8{3},
		textureTriangles: []testTextureTriangle{
			{a: 0, b: 2, c: 1},
		},
	}).freshTriangles([3]int{0, 1, 2})

	m, err := NewFromData(0, tm.encodeOld(), nil)
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	tr := m.Triangles[0]
	if tr.RenderType != RenderFlat {
		t.Errorf("RenderType=%v; expected flat", tr.RenderType)
	}
	if tr.TexCoord != 0 {
		t.Errorf("TexCoord=%d; expected 0", tr.TexCoord)
	}
	if tr.Texture != 55 {
		t.Errorf("Texture=%d; expected 55", tr.Texture)
	}
	if tr.Color != OldTexturedColor {
		t.Errorf("Color=%d; expected %d", tr.Color, OldTexturedColor)
	}
	expectedFlags := HasRenderTypes | HasTextures | HasTexCoords
	if m.Flags != expectedFlags {
		t.Errorf("flags=%v; expected %v", m.Flags, expectedFlags)
	}
}

func TestDecodeOldCleanup(t *testing.T) {
	tm := (&testModel{
		vertices: [][3]int{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}},
		// textured flag with texcoord 0 and no texture id in colour slot
		colors: []uint16{0xffff, 0x20},
		infos:  []uint8{2, 0},
		textureTriangles: []testTextureTriangle{
			{a: 0, b: 1, c: 2},
		},
	}).freshTriangles([3]int{0, 1, 2}, [3]int{2, 1, 0})

	m, err := Decode(0, tm.encodeOld(), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Flags != 0 {
		t.Errorf("flags=%v; expected none after cleanup", m.Flags)
	}
	for i := range m.Triangles {
		tr := &m.Triangles[i]
		if tr.Texture != NoTexture || tr.TexCoord != NoTexCoord || tr.RenderType != RenderSmooth {
			t.Errorf("Triangles[%d]=%+v; expected no texture data", i, tr)
		}
	}
	if m.Triangles[0].Color != OldTexturedColor || m.Triangles[1].Color != 0x20 {
		t.Errorf("colors=%d,%d; expected %d,32", m.Triangles[0].Color, m.Triangles[1].Color, OldTexturedColor)
	}
	if m.TextureUVs != nil {
		t.Errorf("TextureUVs=%v; expected none", m.TextureUVs)
	}
}

func TestDecodeOldCleanupKeepsDistinctFrame(t *testing.T) {
	tm := (&testModel{
		vertices: [][3]int{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}},
		colors:   []uint16{10, 11},
		// texcoord 0 for both triangles, first one matches its frame exactly
		infos: []uint8{2, 2},
		textureTriangles: []testTextureTriangle{
			{a: 0, b: 1, c: 2},
		},
	}).freshTriangles([3]int{0, 1, 2}, [3]int{2, 1, 0})

	m, err := NewFromData(0, tm.encodeOld(), nil)
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	if m.Triangles[0].TexCoord != NoTexCoord {
		t.Errorf("Triangles[0].TexCoord=%d; expected cleared", m.Triangles[0].TexCoord)
	}
	if m.Triangles[1].TexCoord != 0 {
		t.Errorf("Triangles[1].TexCoord=%d; expected 0", m.Triangles[1].TexCoord)
	}
	if !m.Flags.Has(HasTexCoords) || !m.Flags.Has(HasTextures) || m.Flags.Has(HasRenderTypes) {
		t.Errorf("flags=%v; expected textures and texcoords only", m.Flags)
	}
}

func TestDecodeInvalidReference(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"vertex index", (&testModel{
			vertices: make([][3]int, 3),
		}).freshTriangles([3]int{0, 1, 5}).encodeNew()},
		{"negative vertex index", (&testModel{
			vertices: make([][3]int, 3),
		}).freshTriangles([3]int{0, -1, 1}).encodeOld()},
		{"texcoord", (&testModel{
			vertices:         make([][3]int, 3),
			textures:         []int{1},
			texCoords:        []int{1},
			textureTriangles: []testTextureTriangle{{a: 0, b: 1, c: 2}},
		}).freshTriangles([3]int{0, 1, 2}).encodeNew()},
		{"old texcoord", (&testModel{
			vertices: make([][3]int, 3),
			colors:   []uint16{1},
			infos:    []uint8{2 | 4<<OLD_INFO_TEXCOORD_SHIFT},
		}).freshTriangles([3]int{0, 1, 2}).encodeOld()},
		{"texture triangle vertex", (&testModel{
			vertices:         make([][3]int, 3),
			textureTriangles: []testTextureTriangle{{a: 0, b: 1, c: 3}},
		}).freshTriangles([3]int{0, 1, 2}).encodeOld()},
	} {
		_, err := NewFromData(0, tc.data, nil)
		if !IsInvalidReference(err) {
			t.Errorf("%s: err=%v; expected invalid reference", tc.name, err)
		}
		if IsMalformed(err) {
			t.Errorf("%s: err=%v; must not be malformed", tc.name, err)
		}
	}
}

func TestDecodeTruncatedStream(t *testing.T) {
	tm := (&testModel{
		vertices: [][3]int{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}).freshTriangles([3]int{0, 1, 2})
	data := tm.encodeNew()

	// footer claims more vertex id bytes than present
	idLenPos := len(data) - 6
	data[idLenPos+1] += 200
	if _, err := NewFromData(0, data, nil); !IsMalformed(err) {
		t.Errorf("NewFromData(overflow) err=%v; expected malformed", err)
	}
}
