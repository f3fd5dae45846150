// Package track implements the owned, contiguous packed-sample buffer the
// rest of the core reads and writes: a Stream. It only knows how to
// move bytes in and out via the format package's codecs; it has no opinion
// about bones, skeletons, or clips.
package track

import (
	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/animquant/ensure"
	"github.com/mogaika/animquant/format"
)

// Kind distinguishes a rotation track from a translation (or scale) track,
// since the two use different format enums from package format.
type Kind uint8

const (
	KindRotation Kind = iota
	KindTranslation
)

// Stream is a strictly owned, contiguous array of equally sized packed
// samples tagged with its kind, current format, and (for variable formats)
// current bit rate. Streams are never aliased; copying is explicit via
// Duplicate.
type Stream struct {
	kind           Kind
	rotationFormat format.RotationFormat
	vectorFormat   format.VectorFormat
	bitRate        format.BitRate
	sampleRate     float64
	byteWidth      int
	data           []byte
}

// NewRotationStream allocates a rotation track of count samples at the
// given format and (for QuatDropWVariable) bit rate.
func NewRotationStream(count int, sampleRate float64, f format.RotationFormat, rate format.BitRate) *Stream {
	width := f.ByteWidth(rate)
	return &Stream{
		kind:           KindRotation,
		rotationFormat: f,
		bitRate:        rate,
		sampleRate:     sampleRate,
		byteWidth:      width,
		data:           make([]byte, count*width),
	}
}

// NewTranslationStream allocates a translation (or scale) track of count
// samples at the given format and (for VVariable) bit rate.
func NewTranslationStream(count int, sampleRate float64, f format.VectorFormat, rate format.BitRate) *Stream {
	width := f.ByteWidth(rate)
	return &Stream{
		kind:         KindTranslation,
		vectorFormat: f,
		bitRate:      rate,
		sampleRate:   sampleRate,
		byteWidth:    width,
		data:         make([]byte, count*width),
	}
}

func (s *Stream) Kind() Kind             { return s.kind }
func (s *Stream) Count() int             { return len(s.data) / s.byteWidth }
func (s *Stream) ByteWidth() int         { return s.byteWidth }
func (s *Stream) SampleRate() float64    { return s.sampleRate }
func (s *Stream) BitRate() format.BitRate { return s.bitRate }

func (s *Stream) RotationFormat() format.RotationFormat {
	ensure.That(s.kind == KindRotation, "RotationFormat called on a translation stream")
	return s.rotationFormat
}

func (s *Stream) VectorFormat() format.VectorFormat {
	ensure.That(s.kind == KindTranslation, "VectorFormat called on a rotation stream")
	return s.vectorFormat
}

// IsVariable reports whether this stream's format has a negotiable bit rate.
func (s *Stream) IsVariable() bool {
	if s.kind == KindRotation {
		return s.rotationFormat.IsVariable()
	}
	return s.vectorFormat.IsVariable()
}

// RawSample returns the byte range of sample i for direct inspection; it
// does not copy.
func (s *Stream) RawSample(i int) []byte {
	off := i * s.byteWidth
	return s.data[off : off+s.byteWidth]
}

// SampleQuat unpacks sample i as a rotation.
func (s *Stream) SampleQuat(i int) mgl32.Quat {
	ensure.That(s.kind == KindRotation, "SampleQuat called on a translation stream")
	return format.UnpackQuat(s.rotationFormat, s.bitRate, s.RawSample(i))
}

// SampleVector unpacks sample i as a translation.
func (s *Stream) SampleVector(i int) mgl32.Vec3 {
	ensure.That(s.kind == KindTranslation, "SampleVector called on a rotation stream")
	return format.UnpackVector3(s.vectorFormat, s.bitRate, s.RawSample(i))
}

// SetQuat packs q into sample i.
func (s *Stream) SetQuat(i int, q mgl32.Quat) {
	ensure.That(s.kind == KindRotation, "SetQuat called on a translation stream")
	format.PackQuat(q, s.rotationFormat, s.bitRate, s.RawSample(i))
}

// SetVector packs v into sample i.
func (s *Stream) SetVector(i int, v mgl32.Vec3) {
	ensure.That(s.kind == KindTranslation, "SetVector called on a rotation stream")
	format.PackVector3(v, s.vectorFormat, s.bitRate, s.RawSample(i))
}

// Duplicate makes an independent copy of the stream, matching the source's
// "moving a stream transfers ownership; copying is explicit" rule.
func (s *Stream) Duplicate() *Stream {
	dup := *s
	dup.data = make([]byte, len(s.data))
	copy(dup.data, s.data)
	return &dup
}

// Checksum hashes the packed bytes, used by serialize to record each
// track's payload hash and validate it on read.
func (s *Stream) Checksum() uint64 {
	return xxhash.Sum64(s.data)
}

// LoadRaw overwrites the stream's packed bytes in place, used by
// serialize.Read to install a payload decoded from a container. data must
// be exactly Count()*ByteWidth() bytes.
func (s *Stream) LoadRaw(data []byte) {
	ensure.That(len(data) == len(s.data), "LoadRaw: %d bytes, want %d", len(data), len(s.data))
	copy(s.data, data)
}
