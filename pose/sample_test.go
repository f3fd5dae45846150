package pose

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/animquant/bonestream"
	"github.com/mogaika/animquant/format"
	"github.com/mogaika/animquant/track"
)

func TestSampleAllDefaultIsIdentity(t *testing.T) {
	bones := bonestream.Set{
		{IsRotationDefault: true, IsTranslationDefault: true},
	}
	out := make([]Transform, 1)
	Sample(bones, 0.5, out)

	require.Equal(t, mgl32.QuatIdent(), out[0].Rotation)
	require.Equal(t, mgl32.Vec3{0, 0, 0}, out[0].Translation)
}

func TestSampleConstantTranslation(t *testing.T) {
	trans := track.NewTranslationStream(1, 30, format.V96, format.InvalidBitRate)
	trans.SetVector(0, mgl32.Vec3{1, 2, 3})

	bones := bonestream.Set{
		{IsRotationDefault: true, IsTranslationConstant: true, Translation: trans},
	}
	out := make([]Transform, 1)
	Sample(bones, 1.5, out)

	require.Equal(t, mgl32.Vec3{1, 2, 3}, out[0].Translation)
}

func TestSampleInterpolatesBetweenSamples(t *testing.T) {
	rot := track.NewRotationStream(2, 1.0, format.Quat128, format.InvalidBitRate)
	rot.SetQuat(0, mgl32.QuatIdent())
	rot.SetQuat(1, mgl32.QuatIdent())

	trans := track.NewTranslationStream(2, 1.0, format.V96, format.InvalidBitRate)
	trans.SetVector(0, mgl32.Vec3{0, 0, 0})
	trans.SetVector(1, mgl32.Vec3{2, 0, 0})

	bones := bonestream.Set{
		{Rotation: rot, Translation: trans},
	}
	out := make([]Transform, 1)
	Sample(bones, 0.5, out)

	require.InDelta(t, 1.0, out[0].Translation[0], 0.05)
}
