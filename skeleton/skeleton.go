// Package skeleton computes object-space poses from local bone transforms
// and scores reconstructed poses against a raw reference. The composition
// and scoring run in float64 via gonum's quat package deliberately: packed
// samples stay in float32 (github.com/go-gl/mathgl/mgl32) end to end, but
// accumulating parent transforms in float32 across a deep bone chain is
// exactly where compounding rounding error would corrupt the metric the
// search loop trusts, so this package converts at the boundary.
package skeleton

import "github.com/mogaika/animquant/ensure"

// InvalidBoneIndex marks a root bone with no parent.
const InvalidBoneIndex = -1

// RigidBone is one entry of the skeleton hierarchy. VertexDistance is the
// radius of the canonical test points the error metric transforms at this
// bone, standing in for "the bone's shell vertices" the source samples.
type RigidBone struct {
	ParentIndex    int
	VertexDistance float64
}

// Skeleton is an ordered, read-only bone hierarchy. Invariant: for every
// bone i, ParentIndex(i) < i — parents are topologically ordered before
// their children (roots first).
type Skeleton struct {
	bones []RigidBone
}

// New builds a Skeleton, validating the roots-first ordering invariant.
func New(bones []RigidBone) *Skeleton {
	for i, b := range bones {
		ensure.That(b.ParentIndex == InvalidBoneIndex || b.ParentIndex < i,
			"skeleton.New: bone %d has parent %d, violating roots-first order", i, b.ParentIndex)
	}
	return &Skeleton{bones: bones}
}

func (s *Skeleton) NumBones() int { return len(s.bones) }

func (s *Skeleton) Bone(i int) RigidBone { return s.bones[i] }

func (s *Skeleton) ParentIndex(i int) int { return s.bones[i].ParentIndex }

// IsRoot reports whether bone i has no parent.
func (s *Skeleton) IsRoot(i int) bool { return s.bones[i].ParentIndex == InvalidBoneIndex }
