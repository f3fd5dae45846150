package pose

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/animquant/bonestream"
)

// BracketIndices returns the two sample indices surrounding t, and the
// blend factor between them, clamping at the stream's ends. Exported so
// collaborators that keep raw (unpacked) sample arrays outside a
// bonestream.Set — the clip package's in-memory reference Clip — can
// interpolate the same way the packed path does.
func BracketIndices(count int, sampleRate, t float64) (lo, hi int, frac float32) {
	return bracket(count, sampleRate, t)
}

// LerpTransform blends two transforms, translation linearly and rotation
// via nlerp, matching sampleBone's per-channel interpolation.
func LerpTransform(a, b Transform, frac float32) Transform {
	return Transform{
		Rotation:    nlerp(a.Rotation, b.Rotation, frac),
		Translation: lerpVec3(a.Translation, b.Translation, frac),
		Scale:       lerpVec3(a.Scale, b.Scale, frac),
	}
}

func bracket(count int, sampleRate, t float64) (lo, hi int, frac float32) {
	if count <= 1 {
		return 0, 0, 0
	}
	pos := t * sampleRate
	lo = int(pos)
	if lo >= count-1 {
		return count - 1, count - 1, 0
	}
	if lo < 0 {
		lo = 0
	}
	hi = lo + 1
	frac = float32(pos - float64(lo))
	return lo, hi, frac
}

// Sample fills out[i] with bone i's local transform at time t, for every
// bone in bones. out must have the same length as bones. Default bones
// short-circuit to the identity transform without touching their (absent)
// streams. Pure and safe to call concurrently over disjoint slices of out.
func Sample(bones bonestream.Set, t float64, out []Transform) {
	for i, bs := range bones {
		out[i] = sampleBone(bs, t)
	}
}

func sampleBone(bs bonestream.Stream, t float64) Transform {
	tr := Identity()

	switch {
	case bs.IsRotationDefault:
		// identity, already set
	case bs.IsRotationConstant:
		tr.Rotation = bs.Rotation.SampleQuat(0)
	default:
		lo, hi, frac := bracket(bs.Rotation.Count(), bs.Rotation.SampleRate(), t)
		a := bs.Rotation.SampleQuat(lo)
		b := bs.Rotation.SampleQuat(hi)
		tr.Rotation = nlerp(a, b, frac)
	}

	switch {
	case bs.IsTranslationDefault:
		// zero, already set
	case bs.IsTranslationConstant:
		tr.Translation = bs.Translation.SampleVector(0)
	default:
		lo, hi, frac := bracket(bs.Translation.Count(), bs.Translation.SampleRate(), t)
		a := bs.Translation.SampleVector(lo)
		b := bs.Translation.SampleVector(hi)
		tr.Translation = lerpVec3(a, b, frac)
	}

	return tr
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// nlerp is normalized linear interpolation: cheaper than slerp and, at the
// sample-rate-bound step sizes animation clips use, visually equivalent.
func nlerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = mgl32.Quat{W: -b.W, V: b.V.Mul(-1)}
	}
	blended := mgl32.Quat{
		W: a.W + (b.W-a.W)*t,
		V: a.V.Add(b.V.Sub(a.V).Mul(t)),
	}
	return blended.Normalize()
}
