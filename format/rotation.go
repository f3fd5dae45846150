package format

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/animquant/ensure"
)

// RotationFormat is one member of a RotationVariant family.
type RotationFormat uint8

const (
	Quat128 RotationFormat = iota
	QuatDropW96
	QuatDropW48
	QuatDropW32
	QuatDropWVariable
)

// RotationVariant groups formats that share a packing scheme and a common
// highest-precision member.
type RotationVariant uint8

const (
	VariantQuatFull RotationVariant = iota
	VariantQuatDropW
)

// Variant reports which family f belongs to.
func (f RotationFormat) Variant() RotationVariant {
	if f == Quat128 {
		return VariantQuatFull
	}
	return VariantQuatDropW
}

// IsVariable reports whether f's bit rate is negotiable by the search loop.
func (f RotationFormat) IsVariable() bool {
	return f == QuatDropWVariable
}

// HighestPrecision returns the fixed, non-variable member of f's variant,
// used to store constant tracks regardless of the requested format.
func (f RotationFormat) HighestPrecision() RotationFormat {
	switch f.Variant() {
	case VariantQuatFull:
		return Quat128
	default:
		return QuatDropW96
	}
}

// ByteWidth returns the packed sample size in bytes. Variable formats are
// always slot-aligned to 8 bytes regardless of the current bit rate.
func (f RotationFormat) ByteWidth(rate BitRate) int {
	switch f {
	case Quat128:
		return 16
	case QuatDropW96:
		return 12
	case QuatDropW48:
		return 6
	case QuatDropW32:
		return 4
	case QuatDropWVariable:
		return 8
	default:
		ensure.That(false, "unknown rotation format %d", f)
		return 0
	}
}

// PackQuat encodes q into out at format f and, for variable formats, rate.
// out must be at least f.ByteWidth(rate) bytes.
func PackQuat(q mgl32.Quat, f RotationFormat, rate BitRate, out []byte) {
	ensure.That(len(out) >= f.ByteWidth(rate), "PackQuat: buffer too small for format %d", f)

	switch f {
	case Quat128:
		binary.LittleEndian.PutUint32(out[0:4], math.Float32bits(q.X()))
		binary.LittleEndian.PutUint32(out[4:8], math.Float32bits(q.Y()))
		binary.LittleEndian.PutUint32(out[8:12], math.Float32bits(q.Z()))
		binary.LittleEndian.PutUint32(out[12:16], math.Float32bits(q.W))
	case QuatDropW96:
		binary.LittleEndian.PutUint32(out[0:4], math.Float32bits(q.X()))
		binary.LittleEndian.PutUint32(out[4:8], math.Float32bits(q.Y()))
		binary.LittleEndian.PutUint32(out[8:12], math.Float32bits(q.Z()))
	case QuatDropW48:
		binary.LittleEndian.PutUint16(out[0:2], uint16(quantizeUnit(q.X(), 16)))
		binary.LittleEndian.PutUint16(out[2:4], uint16(quantizeUnit(q.Y(), 16)))
		binary.LittleEndian.PutUint16(out[4:6], uint16(quantizeUnit(q.Z(), 16)))
	case QuatDropW32:
		x := quantizeUnit(q.X(), 11)
		y := quantizeUnit(q.Y(), 11)
		z := quantizeUnit(q.Z(), 10)
		packed := x | (y << 11) | (z << 22)
		binary.LittleEndian.PutUint32(out[0:4], packed)
	case QuatDropWVariable:
		n := NumBitsAtBitRate(rate)
		x := uint64(quantizeUnit(q.X(), n))
		y := uint64(quantizeUnit(q.Y(), n))
		z := uint64(quantizeUnit(q.Z(), n))
		packed := (x << uint(64-n)) | (y << uint(64-2*n)) | (z << uint(64-3*n))
		binary.LittleEndian.PutUint64(out[0:8], packed)
	default:
		ensure.That(false, "PackQuat: unknown format %d", f)
	}
}

// UnpackQuat decodes a sample packed by PackQuat.
func UnpackQuat(f RotationFormat, rate BitRate, in []byte) mgl32.Quat {
	ensure.That(len(in) >= f.ByteWidth(rate), "UnpackQuat: buffer too small for format %d", f)

	switch f {
	case Quat128:
		x := math.Float32frombits(binary.LittleEndian.Uint32(in[0:4]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(in[4:8]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(in[8:12]))
		w := math.Float32frombits(binary.LittleEndian.Uint32(in[12:16]))
		return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
	case QuatDropW96:
		x := math.Float32frombits(binary.LittleEndian.Uint32(in[0:4]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(in[4:8]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(in[8:12]))
		return dropWQuat(x, y, z)
	case QuatDropW48:
		x := dequantizeUnit(uint32(binary.LittleEndian.Uint16(in[0:2])), 16)
		y := dequantizeUnit(uint32(binary.LittleEndian.Uint16(in[2:4])), 16)
		z := dequantizeUnit(uint32(binary.LittleEndian.Uint16(in[4:6])), 16)
		return dropWQuat(x, y, z)
	case QuatDropW32:
		packed := binary.LittleEndian.Uint32(in[0:4])
		x := dequantizeUnit(packed&0x7ff, 11)
		y := dequantizeUnit((packed>>11)&0x7ff, 11)
		z := dequantizeUnit((packed>>22)&0x3ff, 10)
		return dropWQuat(x, y, z)
	case QuatDropWVariable:
		n := NumBitsAtBitRate(rate)
		packed := binary.LittleEndian.Uint64(in[0:8])
		mask := uint64(1)<<uint(n) - 1
		x := dequantizeUnit(uint32((packed>>uint(64-n))&mask), n)
		y := dequantizeUnit(uint32((packed>>uint(64-2*n))&mask), n)
		z := dequantizeUnit(uint32((packed>>uint(64-3*n))&mask), n)
		return dropWQuat(x, y, z)
	default:
		ensure.That(false, "UnpackQuat: unknown format %d", f)
		return mgl32.QuatIdent()
	}
}

// dropWQuat reconstructs the dropped W component. Encoders are responsible
// for pre-flipping the quaternion's sign so W is known to be non-negative
// before packing; this codec always reconstructs the non-negative root.
func dropWQuat(x, y, z float32) mgl32.Quat {
	wSq := 1 - x*x - y*y - z*z
	if wSq < 0 {
		wSq = 0
	}
	return mgl32.Quat{W: float32(math.Sqrt(float64(wSq))), V: mgl32.Vec3{x, y, z}}
}
