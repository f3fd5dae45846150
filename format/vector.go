package format

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/animquant/ensure"
)

// VectorFormat packs a 3-component translation (or scale) sample.
type VectorFormat uint8

const (
	V96 VectorFormat = iota
	V48
	V32
	VVariable
)

func (f VectorFormat) IsVariable() bool {
	return f == VVariable
}

// HighestPrecision is the fixed format used to store constant tracks.
func (f VectorFormat) HighestPrecision() VectorFormat {
	return V96
}

func (f VectorFormat) ByteWidth(rate BitRate) int {
	switch f {
	case V96:
		return 12
	case V48:
		return 6
	case V32:
		return 4
	case VVariable:
		return 8
	default:
		ensure.That(false, "unknown vector format %d", f)
		return 0
	}
}

// PackVector3 encodes v into out at format f and, for VVariable, rate.
func PackVector3(v mgl32.Vec3, f VectorFormat, rate BitRate, out []byte) {
	ensure.That(len(out) >= f.ByteWidth(rate), "PackVector3: buffer too small for format %d", f)

	switch f {
	case V96:
		binary.LittleEndian.PutUint32(out[0:4], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(out[4:8], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(out[8:12], math.Float32bits(v[2]))
	case V48:
		binary.LittleEndian.PutUint16(out[0:2], uint16(quantizeUnit(v[0], 16)))
		binary.LittleEndian.PutUint16(out[2:4], uint16(quantizeUnit(v[1], 16)))
		binary.LittleEndian.PutUint16(out[4:6], uint16(quantizeUnit(v[2], 16)))
	case V32:
		x := quantizeUnit(v[0], 11)
		y := quantizeUnit(v[1], 11)
		z := quantizeUnit(v[2], 10)
		packed := x | (y << 11) | (z << 22)
		binary.LittleEndian.PutUint32(out[0:4], packed)
	case VVariable:
		n := NumBitsAtBitRate(rate)
		x := uint64(quantizeUnit(v[0], n))
		y := uint64(quantizeUnit(v[1], n))
		z := uint64(quantizeUnit(v[2], n))
		packed := (x << uint(64-n)) | (y << uint(64-2*n)) | (z << uint(64-3*n))
		binary.LittleEndian.PutUint64(out[0:8], packed)
	default:
		ensure.That(false, "PackVector3: unknown format %d", f)
	}
}

// UnpackVector3 decodes a sample packed by PackVector3.
func UnpackVector3(f VectorFormat, rate BitRate, in []byte) mgl32.Vec3 {
	ensure.That(len(in) >= f.ByteWidth(rate), "UnpackVector3: buffer too small for format %d", f)

	switch f {
	case V96:
		x := math.Float32frombits(binary.LittleEndian.Uint32(in[0:4]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(in[4:8]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(in[8:12]))
		return mgl32.Vec3{x, y, z}
	case V48:
		x := dequantizeUnit(uint32(binary.LittleEndian.Uint16(in[0:2])), 16)
		y := dequantizeUnit(uint32(binary.LittleEndian.Uint16(in[2:4])), 16)
		z := dequantizeUnit(uint32(binary.LittleEndian.Uint16(in[4:6])), 16)
		return mgl32.Vec3{x, y, z}
	case V32:
		packed := binary.LittleEndian.Uint32(in[0:4])
		x := dequantizeUnit(packed&0x7ff, 11)
		y := dequantizeUnit((packed>>11)&0x7ff, 11)
		z := dequantizeUnit((packed>>22)&0x3ff, 10)
		return mgl32.Vec3{x, y, z}
	case VVariable:
		n := NumBitsAtBitRate(rate)
		packed := binary.LittleEndian.Uint64(in[0:8])
		mask := uint64(1)<<uint(n) - 1
		x := dequantizeUnit(uint32((packed>>uint(64-n))&mask), n)
		y := dequantizeUnit(uint32((packed>>uint(64-2*n))&mask), n)
		z := dequantizeUnit(uint32((packed>>uint(64-3*n))&mask), n)
		return mgl32.Vec3{x, y, z}
	default:
		ensure.That(false, "UnpackVector3: unknown format %d", f)
		return mgl32.Vec3{}
	}
}
