package skeleton

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/animquant/pose"
)

func chainSkeleton(n int) *Skeleton {
	bones := make([]RigidBone, n)
	for i := range bones {
		parent := i - 1
		if i == 0 {
			parent = InvalidBoneIndex
		}
		bones[i] = RigidBone{ParentIndex: parent, VertexDistance: 1.0}
	}
	return New(bones)
}

func identityLocal(n int) []pose.Transform {
	out := make([]pose.Transform, n)
	for i := range out {
		out[i] = pose.Identity()
	}
	return out
}

func TestCalculateErrorPerBoneZeroWhenIdentical(t *testing.T) {
	sk := chainSkeleton(3)
	raw := identityLocal(3)
	lossy := identityLocal(3)

	rawObj := make([]ObjectTransform, 3)
	lossyObj := make([]ObjectTransform, 3)
	errOut := make([]float32, 3)

	sk.CalculateErrorPerBone(raw, lossy, rawObj, lossyObj, errOut)
	for i, e := range errOut {
		require.InDelta(t, 0, e, 1e-9, "bone %d", i)
	}
}

func TestCalculateErrorPerBoneDetectsTranslationDrift(t *testing.T) {
	sk := chainSkeleton(2)
	raw := identityLocal(2)
	lossy := identityLocal(2)
	lossy[1].Translation = mgl32.Vec3{0.1, 0, 0}

	rawObj := make([]ObjectTransform, 2)
	lossyObj := make([]ObjectTransform, 2)
	errOut := make([]float32, 2)

	sk.CalculateErrorPerBone(raw, lossy, rawObj, lossyObj, errOut)
	require.InDelta(t, 0, errOut[0], 1e-9)
	require.Greater(t, errOut[1], float32(0.09))
}

func TestCalculateErrorContributionIsolatesAncestor(t *testing.T) {
	sk := chainSkeleton(3)
	raw := identityLocal(3)
	lossy := identityLocal(3)
	lossy[0].Translation = mgl32.Vec3{0.2, 0, 0}

	scratch := make([]pose.Transform, 3)
	rawObj := make([]ObjectTransform, 3)
	mixedObj := make([]ObjectTransform, 3)
	c := sk.CalculateErrorContribution(raw, lossy, 0, 2, scratch, rawObj, mixedObj)

	require.Greater(t, c.TranslationError, 0.19)
	require.InDelta(t, 0, c.RotationError, 1e-9)
}
