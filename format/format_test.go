package format

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestNumBitsAtBitRateSchedule(t *testing.T) {
	require.Equal(t, 1, NumBitsAtBitRate(LowestBitRate))
	require.Equal(t, 19, NumBitsAtBitRate(HighestBitRate))
	require.True(t, LowestBitRate.Eligible())
	require.False(t, HighestBitRate.Eligible())
}

func TestRoundTripIdentityQuaternion(t *testing.T) {
	q := mgl32.Quat{W: 1, V: mgl32.Vec3{0, 0, 0}}

	formats := []RotationFormat{Quat128, QuatDropW96, QuatDropW48, QuatDropW32, QuatDropWVariable}
	for _, f := range formats {
		rate := HighestBitRate
		buf := make([]byte, f.ByteWidth(rate))
		PackQuat(q, f, rate, buf)
		out := UnpackQuat(f, rate, buf)

		require.GreaterOrEqualf(t, out.W, float32(0.9999), "format %d reconstructed W too low: %v", f, out.W)
		require.InDeltaf(t, 0, out.X(), 0.01, "format %d X drifted", f)
		require.InDeltaf(t, 0, out.Y(), 0.01, "format %d Y drifted", f)
		require.InDeltaf(t, 0, out.Z(), 0.01, "format %d Z drifted", f)
	}
}

func TestRoundTripVector3Fixed(t *testing.T) {
	v := mgl32.Vec3{0.5, -0.25, 0.75}

	formats := []VectorFormat{V96, V48, V32, VVariable}
	for _, f := range formats {
		rate := HighestBitRate
		buf := make([]byte, f.ByteWidth(rate))
		PackVector3(v, f, rate, buf)
		out := UnpackVector3(f, rate, buf)

		require.InDeltaf(t, v[0], out[0], 0.01, "format %d X drifted", f)
		require.InDeltaf(t, v[1], out[1], 0.01, "format %d Y drifted", f)
		require.InDeltaf(t, v[2], out[2], 0.01, "format %d Z drifted", f)
	}
}

func TestVariableByteWidthIsSlotAligned(t *testing.T) {
	for rate := LowestBitRate; rate <= HighestBitRate; rate++ {
		require.Equal(t, 8, QuatDropWVariable.ByteWidth(rate))
		require.Equal(t, 8, VVariable.ByteWidth(rate))
	}
}

func TestQuantizationErrorShrinksWithBitRate(t *testing.T) {
	v := mgl32.Vec3{0.3, 0.6, -0.4}

	lowBuf := make([]byte, VVariable.ByteWidth(BitRate(2)))
	PackVector3(v, VVariable, BitRate(2), lowBuf)
	lowOut := UnpackVector3(VVariable, BitRate(2), lowBuf)

	highBuf := make([]byte, VVariable.ByteWidth(HighestBitRate))
	PackVector3(v, VVariable, HighestBitRate, highBuf)
	highOut := UnpackVector3(VVariable, HighestBitRate, highBuf)

	lowErr := v.Sub(lowOut).Len()
	highErr := v.Sub(highOut).Len()

	require.Less(t, highErr, lowErr)
}

func TestCompressionTypeString(t *testing.T) {
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
}
