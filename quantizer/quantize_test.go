package quantizer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/animquant/alloc"
	"github.com/mogaika/animquant/bonestream"
	"github.com/mogaika/animquant/clip"
	"github.com/mogaika/animquant/format"
	"github.com/mogaika/animquant/pose"
	"github.com/mogaika/animquant/skeleton"
	"github.com/mogaika/animquant/track"
)

func chainSkeleton(n int) *skeleton.Skeleton {
	bones := make([]skeleton.RigidBone, n)
	for i := range bones {
		parent := i - 1
		if i == 0 {
			parent = skeleton.InvalidBoneIndex
		}
		bones[i] = skeleton.RigidBone{ParentIndex: parent, VertexDistance: 1.0}
	}
	return skeleton.New(bones)
}

func allDefaultBones(n int) bonestream.Set {
	bones := make(bonestream.Set, n)
	for i := range bones {
		bones[i] = bonestream.Stream{IsRotationDefault: true, IsTranslationDefault: true}
	}
	return bones
}

func TestQuantizeStreamsAllDefaultIsNoOp(t *testing.T) {
	numBones := 3
	numSamples := 4
	bones := allDefaultBones(numBones)
	sk := chainSkeleton(numBones)

	frames := make([][]pose.Transform, numBones)
	for i := range frames {
		frames[i] = make([]pose.Transform, numSamples)
		for s := range frames[i] {
			frames[i][s] = pose.Identity()
		}
	}
	c := clip.NewMemory(10, 0.01, frames)

	arena := alloc.New()
	result := QuantizeStreams(arena, bones, format.QuatDropWVariable, format.VVariable, c, sk, nil)

	require.Equal(t, 0, result.Iterations)
	require.Equal(t, 0.0, result.AchievedError)
	for i := 0; i < numBones; i++ {
		require.True(t, bones[i].IsRotationDefault)
		require.True(t, bones[i].IsTranslationDefault)
	}
}

func TestQuantizeStreamsRaisesBitRateUntilThreshold(t *testing.T) {
	numBones := 1
	numSamples := 8
	sampleRate := 30.0

	frames := make([]pose.Transform, numSamples)
	for s := range frames {
		angle := float32(s) * 0.2
		frames[s] = pose.Transform{
			Rotation:    mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0}),
			Translation: mgl32.Vec3{0, 0, 0},
			Scale:       mgl32.Vec3{1, 1, 1},
		}
	}
	c := clip.NewMemory(sampleRate, 0.01, [][]pose.Transform{frames})
	sk := chainSkeleton(numBones)

	rotRaw := track.NewRotationStream(numSamples, sampleRate, format.Quat128, format.InvalidBitRate)
	for i, f := range frames {
		rotRaw.SetQuat(i, f.Rotation)
	}
	transRaw := track.NewTranslationStream(1, sampleRate, format.V96, format.InvalidBitRate)
	transRaw.SetVector(0, mgl32.Vec3{0, 0, 0})

	bones := bonestream.Set{
		{Rotation: rotRaw, Translation: transRaw, IsTranslationConstant: true},
	}

	arena := alloc.New()
	result := QuantizeStreams(arena, bones, format.QuatDropWVariable, format.V96, c, sk, nil)

	require.LessOrEqual(t, result.AchievedError, 0.01)
	require.True(t, bones[0].Rotation.BitRate() >= format.LowestBitRate)
	require.True(t, bones[0].Rotation.BitRate() <= format.HighestBitRate)
}

func eligibleTranslationBone(numSamples int, sampleRate float64) bonestream.Stream {
	trans := track.NewTranslationStream(numSamples, sampleRate, format.VVariable, format.LowestBitRate)
	for i := 0; i < numSamples; i++ {
		trans.SetVector(i, mgl32.Vec3{0, 0, 0})
	}
	return bonestream.Stream{
		Translation:       trans,
		IsRotationDefault: true,
	}
}

// TestSelectAncestorTrackFavorsNearestAncestorOnTie covers SPEC_FULL's
// scenario 3: a chain of four bones where two ancestors (bones 1 and 2)
// contribute identically to a leaf bone's error. selectAncestorTrack must
// attribute the error to the nearer (child-proximal) ancestor, not the one
// closer to the root, matching the original implementation's walk order.
func TestSelectAncestorTrackFavorsNearestAncestorOnTie(t *testing.T) {
	numBones := 4
	sk := chainSkeleton(numBones)
	badBone := 3

	work := bonestream.Set{
		{IsRotationDefault: true, IsTranslationDefault: true}, // bone 0: not eligible
		eligibleTranslationBone(1, 30),                        // bone 1: eligible, farther ancestor
		eligibleTranslationBone(1, 30),                        // bone 2: eligible, nearer ancestor
		{IsRotationDefault: true, IsTranslationDefault: true}, // bone 3 (badBone): not eligible
	}

	rawPose := make([]pose.Transform, numBones)
	workPose := make([]pose.Transform, numBones)
	for i := range rawPose {
		rawPose[i] = pose.Identity()
		workPose[i] = pose.Identity()
	}
	// Both ancestors' translation differs from raw by the same offset, so
	// their attributed positional error at badBone is identical.
	workPose[1].Translation = mgl32.Vec3{0.2, 0, 0}
	workPose[2].Translation = mgl32.Vec3{0.2, 0, 0}

	scratch := make([]pose.Transform, numBones)
	rawObj := make([]skeleton.ObjectTransform, numBones)
	mixedObj := make([]skeleton.ObjectTransform, numBones)

	chosenBone, chosenIsRotation, chosenErr := selectAncestorTrack(sk, work, rawPose, workPose, badBone, scratch, rawObj, mixedObj)

	require.Equal(t, 2, chosenBone)
	require.False(t, chosenIsRotation)
	require.Greater(t, chosenErr, 0.19)
}

// TestQuantizeStreamsSticksBoneWhenNoAncestorIsEligible covers SPEC_FULL's
// scenario 4: a fixed (non-variable) rotation format and a constant
// translation track leave a bone with no eligible ancestor track at all.
// The search must mark it stuck rather than loop or panic.
func TestQuantizeStreamsSticksBoneWhenNoAncestorIsEligible(t *testing.T) {
	numBones := 1
	numSamples := 8
	sampleRate := 30.0

	frames := make([]pose.Transform, numSamples)
	for s := range frames {
		angle := float32(s) * 0.2
		frames[s] = pose.Transform{
			Rotation:    mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0}),
			Translation: mgl32.Vec3{0, 0, 0},
			Scale:       mgl32.Vec3{1, 1, 1},
		}
	}
	c := clip.NewMemory(sampleRate, 1e-9, [][]pose.Transform{frames})
	sk := chainSkeleton(numBones)

	rotRaw := track.NewRotationStream(numSamples, sampleRate, format.Quat128, format.InvalidBitRate)
	for i, f := range frames {
		rotRaw.SetQuat(i, f.Rotation)
	}
	transRaw := track.NewTranslationStream(1, sampleRate, format.V96, format.InvalidBitRate)
	transRaw.SetVector(0, mgl32.Vec3{0, 0, 0})

	bones := bonestream.Set{
		{Rotation: rotRaw, Translation: transRaw, IsTranslationConstant: true},
	}

	arena := alloc.New()
	result := QuantizeStreams(arena, bones, format.QuatDropW96, format.V96, c, sk, nil)

	require.True(t, result.StuckBones[0])
	require.Equal(t, 1, result.Iterations)
}
