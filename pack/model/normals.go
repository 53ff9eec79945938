package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/cache_model_browser/utils"
)

const (
	NORMAL_CLAMP = 8192
	NORMAL_UNIT  = 256
)

// VertexNormalAccumulator sums fixed point face normals of smooth triangles around vertex.
// Count is kept for inspection only, final direction does not depend on it.
type VertexNormalAccumulator struct {
	X, Y, Z int32
	Count   int32
}

func (a *VertexNormalAccumulator) add(x, y, z int32) {
	a.X += x
	a.Y += y
	a.Z += z
	a.Count++
}

// Normalize returns unit vector of summed direction, zero vector for zero sum
func (a *VertexNormalAccumulator) Normalize() mgl32.Vec3 {
	x, y, z := float64(a.X), float64(a.Y), float64(a.Z)
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		l = 1
	}
	return mgl32.Vec3{float32(x / l), float32(y / l), float32(z / l)}
}

// FaceNormal is fixed point (256 = 1.0) normal of flat shaded triangle
type FaceNormal struct {
	X, Y, Z int32
}

// faceNormal returns cross product of triangle edges scaled to NORMAL_UNIT length
func (m *Model) faceNormal(t *Triangle) (int32, int32, int32) {
	a, b, c := &m.Vertices[t.A], &m.Vertices[t.B], &m.Vertices[t.C]

	abX, abY, abZ := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	acX, acY, acZ := c.X-a.X, c.Y-a.Y, c.Z-a.Z

	x := abY*acZ - acY*abZ
	y := abZ*acX - acZ*abX
	z := abX*acY - acX*abY

	for x > NORMAL_CLAMP || y > NORMAL_CLAMP || z > NORMAL_CLAMP ||
		x < -NORMAL_CLAMP || y < -NORMAL_CLAMP || z < -NORMAL_CLAMP {
		x >>= 1
		y >>= 1
		z >>= 1
	}

	l := utils.ISqrt(x*x + y*y + z*z)
	if l <= 0 {
		l = 1
	}
	return x * NORMAL_UNIT / l, y * NORMAL_UNIT / l, z * NORMAL_UNIT / l
}

func (m *Model) ComputeNormals() {
	m.NormalAccumulators = make([]VertexNormalAccumulator, len(m.Vertices))
	m.FaceNormals = nil

	for i := range m.Triangles {
		t := &m.Triangles[i]
		x, y, z := m.faceNormal(t)

		switch m.renderType(i) {
		case RenderSmooth:
			m.NormalAccumulators[t.A].add(x, y, z)
			m.NormalAccumulators[t.B].add(x, y, z)
			m.NormalAccumulators[t.C].add(x, y, z)
		case RenderFlat:
			if m.FaceNormals == nil {
				m.FaceNormals = make([]*FaceNormal, len(m.Triangles))
			}
			m.FaceNormals[i] = &FaceNormal{X: x, Y: y, Z: z}
		}
	}

	m.VertexNormals = make([]mgl32.Vec3, len(m.Vertices))
	for i := range m.NormalAccumulators {
		m.VertexNormals[i] = m.NormalAccumulators[i].Normalize()
	}
}

// FaceNormal returns unit normal of flat triangle or nil
func (m *Model) FaceNormal(iTriangle int) *mgl32.Vec3 {
	if m.FaceNormals == nil || m.FaceNormals[iTriangle] == nil {
		return nil
	}
	fn := m.FaceNormals[iTriangle]
	v := utils.FixedToUnit(fn.X, fn.Y, fn.Z)
	if v.Len() != 0 {
		v = v.Normalize()
	}
	return &v
}
