package skeleton

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/mogaika/animquant/pose"
)

// ObjectTransform is a bone's object-space rigid transform, double
// precision for the reasons given in the package doc.
type ObjectTransform struct {
	Rotation    quat.Number
	Translation [3]float64
}

func toQuat(r [4]float32) quat.Number {
	return quat.Number{Real: float64(r[3]), Imag: float64(r[0]), Jmag: float64(r[1]), Kmag: float64(r[2])}
}

func rotateVec(q quat.Number, v [3]float64) [3]float64 {
	p := quat.Number{Imag: v[0], Jmag: v[1], Kmag: v[2]}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return [3]float64{r.Imag, r.Jmag, r.Kmag}
}

func addVec(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// ComputeObjectSpace chains local transforms into object space, roots
// first, per the skeleton's parent-index order.
func (s *Skeleton) ComputeObjectSpace(local []pose.Transform, out []ObjectTransform) {
	for i, b := range s.bones {
		lr := local[i].Rotation
		lq := toQuat([4]float32{lr.X(), lr.Y(), lr.Z(), lr.W})
		lt := [3]float64{float64(local[i].Translation[0]), float64(local[i].Translation[1]), float64(local[i].Translation[2])}

		if b.ParentIndex == InvalidBoneIndex {
			out[i] = ObjectTransform{Rotation: lq, Translation: lt}
			continue
		}
		parent := out[b.ParentIndex]
		out[i] = ObjectTransform{
			Rotation:    quat.Mul(parent.Rotation, lq),
			Translation: addVec(parent.Translation, rotateVec(parent.Rotation, lt)),
		}
	}
}

// testPoints are the canonical offsets, scaled by a bone's VertexDistance,
// the error metric transforms and compares. Three axis-aligned points
// stand in for "the bone's shell vertices".
var testPoints = [3][3]float64{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

func transformPoint(t ObjectTransform, p [3]float64) [3]float64 {
	return addVec(t.Translation, rotateVec(t.Rotation, p))
}

func dist(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// CalculateErrorPerBone scores raw vs lossy local poses and writes the
// per-bone maximum positional error into errOut. rawObj/lossyObj are
// caller-owned scratch of length NumBones(), reused across calls. errOut is
// float32 — error values are small positional distances, and this is the
// array the quantizer's hot sample-time scan pulls from an alloc.Arena.
func (s *Skeleton) CalculateErrorPerBone(rawLocal, lossyLocal []pose.Transform, rawObj, lossyObj []ObjectTransform, errOut []float32) {
	s.ComputeObjectSpace(rawLocal, rawObj)
	s.ComputeObjectSpace(lossyLocal, lossyObj)

	for i, b := range s.bones {
		worst := 0.0
		for _, tp := range testPoints {
			p := [3]float64{tp[0] * b.VertexDistance, tp[1] * b.VertexDistance, tp[2] * b.VertexDistance}
			rawPoint := transformPoint(rawObj[i], p)
			lossyPoint := transformPoint(lossyObj[i], p)
			if d := dist(rawPoint, lossyPoint); d > worst {
				worst = d
			}
		}
		errOut[i] = float32(worst)
	}
}

// Contribution is the per-ancestor decomposition of a bad bone's error into
// the portion caused by that ancestor's rotation vs translation track.
type Contribution struct {
	RotationError    float64
	TranslationError float64
}

// CalculateErrorContribution computes, for a single ancestor bone, the
// positional error at badBone when only that ancestor's rotation
// (respectively translation) is taken from the lossy pose and every other
// bone — including the ancestor's own other channel — is taken from the
// raw pose. rawLocal and lossyLocal must have the same length, NumBones().
// scratch, rawObj, and mixedObj are caller-owned, NumBones()-sized scratch,
// reused across calls rather than allocated per attribution attempt.
func (s *Skeleton) CalculateErrorContribution(rawLocal, lossyLocal []pose.Transform, ancestor, badBone int, scratch []pose.Transform, rawObj, mixedObj []ObjectTransform) Contribution {
	copy(scratch, rawLocal)

	scratch[ancestor].Rotation = lossyLocal[ancestor].Rotation
	rotOnly := s.objectSpaceErrorAt(rawLocal, scratch, badBone, rawObj, mixedObj)
	scratch[ancestor].Rotation = rawLocal[ancestor].Rotation

	scratch[ancestor].Translation = lossyLocal[ancestor].Translation
	transOnly := s.objectSpaceErrorAt(rawLocal, scratch, badBone, rawObj, mixedObj)
	scratch[ancestor].Translation = rawLocal[ancestor].Translation

	return Contribution{RotationError: rotOnly, TranslationError: transOnly}
}

func (s *Skeleton) objectSpaceErrorAt(rawLocal, mixedLocal []pose.Transform, bone int, rawObj, mixedObj []ObjectTransform) float64 {
	s.ComputeObjectSpace(rawLocal, rawObj)
	s.ComputeObjectSpace(mixedLocal, mixedObj)

	b := s.bones[bone]
	worst := 0.0
	for _, tp := range testPoints {
		p := [3]float64{tp[0] * b.VertexDistance, tp[1] * b.VertexDistance, tp[2] * b.VertexDistance}
		rawPoint := transformPoint(rawObj[bone], p)
		mixedPoint := transformPoint(mixedObj[bone], p)
		if d := dist(rawPoint, mixedPoint); d > worst {
			worst = d
		}
	}
	return worst
}
