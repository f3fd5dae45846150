package serialize

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/animquant/bonestream"
	"github.com/mogaika/animquant/format"
	"github.com/mogaika/animquant/track"
)

func sampleBones() bonestream.Set {
	rot := track.NewRotationStream(4, 30, format.QuatDropWVariable, format.BitRate(7))
	for i := 0; i < 4; i++ {
		rot.SetQuat(i, mgl32.QuatIdent())
	}
	trans := track.NewTranslationStream(4, 30, format.V96, format.InvalidBitRate)
	for i := 0; i < 4; i++ {
		trans.SetVector(i, mgl32.Vec3{float32(i), 0, 0})
	}
	return bonestream.Set{
		{Rotation: rot, Translation: trans},
		{IsRotationDefault: true, IsTranslationDefault: true},
	}
}

func TestWriteReadRoundTripNoCompression(t *testing.T) {
	bones := sampleBones()
	data, err := Write(bones, format.CompressionNone)
	require.NoError(t, err)

	out, err := Read(data)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.False(t, out[0].IsRotationDefault)
	require.True(t, out[1].IsRotationDefault)
	require.Equal(t, bones[0].Rotation.Checksum(), out[0].Rotation.Checksum())
}

func TestWriteReadRoundTripZstd(t *testing.T) {
	bones := sampleBones()
	data, err := Write(bones, format.CompressionZstd)
	require.NoError(t, err)

	out, err := Read(data)
	require.NoError(t, err)
	require.Equal(t, bones[0].Translation.Checksum(), out[0].Translation.Checksum())
}

func TestWriteReadRoundTripLZ4(t *testing.T) {
	bones := sampleBones()
	data, err := Write(bones, format.CompressionLZ4)
	require.NoError(t, err)

	out, err := Read(data)
	require.NoError(t, err)
	require.Equal(t, bones[0].Rotation.Checksum(), out[0].Rotation.Checksum())
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, err := Read([]byte("garbage!"))
	require.Error(t, err)
}
