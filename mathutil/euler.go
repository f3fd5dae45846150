// Package mathutil carries Euler-angle conversions for callers that author
// or inspect rotations in human terms (test fixtures, tooling); the
// quantization core itself only ever handles quaternions.
package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// QuatToEuler returns q as Tait-Bryan angles in radians.
func QuatToEuler(q mgl32.Quat) (e mgl32.Vec3) {
	sinrCosp := float64(2 * (q.W*q.X() + q.Y()*q.Z()))
	cosrCosp := float64(1 - 2*(q.X()*q.X()+q.Y()*q.Y()))
	e[0] = float32(math.Atan2(sinrCosp, cosrCosp))

	sinp := float64(2 * (q.W*q.Y() - q.Z()*q.X()))
	if math.Abs(sinp) >= 1 {
		e[1] = float32(math.Copysign(math.Pi/2, sinp))
	} else {
		e[1] = float32(math.Asin(sinp))
	}

	sinyCosp := float64(2 * (q.W*q.Z() + q.X()*q.Y()))
	cosyCosp := float64(1 - 2*(q.Y()*q.Y()+q.Z()*q.Z()))
	e[2] = float32(math.Atan2(sinyCosp, cosyCosp))

	return e
}

// EulerToQuat is the inverse of QuatToEuler; e is in radians.
func EulerToQuat(e mgl32.Vec3) mgl32.Quat {
	x, y, z := float64(e[0])*0.5, float64(e[1])*0.5, float64(e[2])*0.5
	sx, cx := math.Sin(x), math.Cos(x)
	sy, cy := math.Sin(y), math.Cos(y)
	sz, cz := math.Sin(z), math.Cos(z)

	q := mgl32.Quat{
		V: mgl32.Vec3{
			float32(sx*cy*cz - cx*sy*sz),
			float32(cx*sy*cz + sx*cy*sz),
			float32(cx*cy*sz - sx*sy*cz),
		},
		W: float32(cx*cy*cz + sx*sy*sz),
	}
	return q.Normalize()
}

// FloatArray32to64 widens a slice for libraries that only take float64.
func FloatArray32to64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
