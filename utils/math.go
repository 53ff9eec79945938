package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func Vec3FromInts(x, y, z int32) mgl32.Vec3 {
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

// FixedToUnit converts fixed point vector with 256 as unit length
func FixedToUnit(x, y, z int32) mgl32.Vec3 {
	return Vec3FromInts(x, y, z).Mul(1.0 / 256.0)
}

func IsFinite32(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// ISqrt mimics int(sqrt(double(v))) used by fixed point renderers
func ISqrt(v int32) int32 {
	return int32(math.Sqrt(float64(v)))
}
