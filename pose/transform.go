// Package pose turns packed bone streams into local-space transforms at an
// arbitrary sample time, by unpacking the two bracketing samples and
// blending.
package pose

import "github.com/go-gl/mathgl/mgl32"

// Transform is a bone's local-space rotation, translation, and scale at one
// instant. Scale is carried for completeness (scale-track compression is a
// documented non-goal, so every Transform here has unit scale) but the
// field exists so a downstream composer doesn't need a special case.
type Transform struct {
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
	Scale       mgl32.Vec3
}

// Identity is the transform of a fully default bone.
func Identity() Transform {
	return Transform{
		Rotation:    mgl32.QuatIdent(),
		Translation: mgl32.Vec3{0, 0, 0},
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}
