package model

import (
	"fmt"
	"io"
)

// ExportObj writes model as wavefront obj.
// Flat triangles reference their own normal appended after vertex normals.
func (m *Model) ExportObj(_w io.Writer) error {
	var err error
	w := func(format string, args ...interface{}) {
		if err == nil {
			_, err = _w.Write(([]byte)(fmt.Sprintf(format+"\n", args...)))
		}
	}

	w("o model%d", m.Id)
	for _, v := range m.Vertices {
		w("v %d %d %d", v.X, -v.Y, -v.Z)
	}

	haveNorm := m.VertexNormals != nil
	iFaceNormal := make([]int, len(m.Triangles))
	if haveNorm {
		for _, n := range m.VertexNormals {
			w("vn %f %f %f", n[0], -n[1], -n[2])
		}
		next := len(m.VertexNormals) + 1
		for i := range m.Triangles {
			if n := m.FaceNormal(i); n != nil {
				w("vn %f %f %f", n[0], -n[1], -n[2])
				iFaceNormal[i] = next
				next++
			}
		}
	}

	iCornerUV := make([]int, len(m.Triangles))
	nextUV := 1
	for i := range m.Triangles {
		if _, ok := m.CornerUV(i, 0); !ok {
			continue
		}
		iCornerUV[i] = nextUV
		for corner := 0; corner < 3; corner++ {
			uv, _ := m.CornerUV(i, corner)
			w("vt %f %f", uv[0], 1-uv[1])
		}
		nextUV += 3
	}

	for i := range m.Triangles {
		t := &m.Triangles[i]
		var s string
		for corner, iVertex := range t.Vertices() {
			iV := int(iVertex) + 1
			iN := iV
			if iFaceNormal[i] != 0 {
				iN = iFaceNormal[i]
			}
			switch {
			case haveNorm && iCornerUV[i] != 0:
				s += fmt.Sprintf(" %d/%d/%d", iV, iCornerUV[i]+corner, iN)
			case haveNorm:
				s += fmt.Sprintf(" %d//%d", iV, iN)
			case iCornerUV[i] != 0:
				s += fmt.Sprintf(" %d/%d", iV, iCornerUV[i]+corner)
			default:
				s += fmt.Sprintf(" %d", iV)
			}
		}
		w("f%s", s)
	}

	return err
}
