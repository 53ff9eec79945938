package model

import (
	"github.com/mogaika/cache_model_browser/utils"
)

const (
	TRIANGLE_FRESH      = 1 // three new indexes
	TRIANGLE_KEEP_FIRST = 2 // a kept, b from previous c
	TRIANGLE_KEEP_LAST  = 3 // a from previous c, b kept
	TRIANGLE_SWAP       = 4 // a and b swapped
)

// topology is sliding window of last triangle plus running base index
type topology struct {
	a, b, c int32
	last    int32
}

// next applies one opcode. Returns false for unknown opcode, state stays untouched then.
func (t *topology) next(op uint8, ids *utils.Cursor) bool {
	switch op {
	case TRIANGLE_FRESH:
		t.a = ids.SmallSmart() + t.last
		t.b = ids.SmallSmart() + t.a
		t.c = ids.SmallSmart() + t.b
	case TRIANGLE_KEEP_FIRST:
		t.b = t.c
		t.c = ids.SmallSmart() + t.last
	case TRIANGLE_KEEP_LAST:
		t.a = t.c
		t.c = ids.SmallSmart() + t.last
	case TRIANGLE_SWAP:
		t.a, t.b = t.b, t.a
		t.c = ids.SmallSmart() + t.last
	default:
		return false
	}
	t.last = t.c
	return true
}

func (m *Model) decodeTriangles(base *utils.Cursor, l *Layout) error {
	types := base.At("triangle types", l.TriangleTypesOffset)
	ids := base.At("vertex ids", l.VertexIdsOffset)

	var window topology
	for i := range m.Triangles {
		if window.next(types.U8(), ids) {
			t := &m.Triangles[i]
			t.A, t.B, t.C = window.a, window.b, window.c
		}
	}

	return cursorsError(types, ids)
}
