// Package serialize persists a quantized bonestream.Set to a compact
// binary container: an 8-byte magic+version header, a per-bone table of
// track format/bit-rate/byte-length, then the concatenated track payloads.
// It does not produce any particular game engine's runtime format.
package serialize

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/mogaika/animquant/bonestream"
	"github.com/mogaika/animquant/format"
	"github.com/mogaika/animquant/track"
)

var magic = [4]byte{'A', 'Q', 'N', 'T'}

const containerVersion = 1

// trackRecord is the fixed-size, per-track entry in the container's table.
type trackRecord struct {
	Kind       track.Kind
	RotFormat  format.RotationFormat
	VecFormat  format.VectorFormat
	BitRate    format.BitRate
	IsDefault  bool
	IsConstant bool
	Count      uint32
	ByteWidth  uint32
	Checksum   uint64
}

// Write encodes bones as a container and returns it, compressed with the
// given CompressionType.
func Write(bones bonestream.Set, compression format.CompressionType) ([]byte, error) {
	var body bytes.Buffer

	binary.Write(&body, binary.LittleEndian, uint32(len(bones)))

	records := make([]trackRecord, 0, len(bones)*2)
	var payloads bytes.Buffer

	for _, bs := range bones {
		records = append(records, recordFor(bs.Rotation, track.KindRotation, bs.IsRotationDefault, bs.IsRotationConstant))
		records = append(records, recordFor(bs.Translation, track.KindTranslation, bs.IsTranslationDefault, bs.IsTranslationConstant))
	}

	binary.Write(&body, binary.LittleEndian, uint32(len(records)))
	for _, r := range records {
		writeRecord(&body, r)
	}

	for _, bs := range bones {
		appendPayload(&payloads, bs.Rotation)
		appendPayload(&payloads, bs.Translation)
	}
	body.Write(payloads.Bytes())

	var out bytes.Buffer
	out.Write(magic[:])
	out.WriteByte(containerVersion)
	out.WriteByte(byte(compression))
	out.Write([]byte{0, 0}) // reserved, keeps the header 8 bytes

	compressed, err := compress(body.Bytes(), compression)
	if err != nil {
		return nil, err
	}
	out.Write(compressed)
	return out.Bytes(), nil
}

func recordFor(s *track.Stream, kind track.Kind, isDefault, isConstant bool) trackRecord {
	if isDefault || s == nil {
		return trackRecord{Kind: kind, IsDefault: true}
	}
	r := trackRecord{
		Kind:       kind,
		BitRate:    format.InvalidBitRate,
		IsConstant: isConstant,
		Count:      uint32(s.Count()),
		ByteWidth:  uint32(s.ByteWidth()),
		Checksum:   s.Checksum(),
	}
	if kind == track.KindRotation {
		r.RotFormat = s.RotationFormat()
	} else {
		r.VecFormat = s.VectorFormat()
	}
	if s.IsVariable() {
		r.BitRate = s.BitRate()
	}
	return r
}

func appendPayload(w *bytes.Buffer, s *track.Stream) {
	if s == nil {
		return
	}
	for i := 0; i < s.Count(); i++ {
		w.Write(s.RawSample(i))
	}
}

func writeRecord(w io.Writer, r trackRecord) {
	binary.Write(w, binary.LittleEndian, byte(r.Kind))
	binary.Write(w, binary.LittleEndian, byte(r.RotFormat))
	binary.Write(w, binary.LittleEndian, byte(r.VecFormat))
	binary.Write(w, binary.LittleEndian, int32(r.BitRate))
	binary.Write(w, binary.LittleEndian, boolByte(r.IsDefault))
	binary.Write(w, binary.LittleEndian, boolByte(r.IsConstant))
	binary.Write(w, binary.LittleEndian, r.Count)
	binary.Write(w, binary.LittleEndian, r.ByteWidth)
	binary.Write(w, binary.LittleEndian, r.Checksum)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func compress(data []byte, c format.CompressionType) ([]byte, error) {
	switch c {
	case format.CompressionNone:
		return data, nil
	case format.CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, errors.Wrap(err, "serialize.compress: creating zstd writer")
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	case format.CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, errors.Wrap(err, "serialize.compress: writing lz4 frame")
		}
		if err := w.Close(); err != nil {
			return nil, errors.Wrap(err, "serialize.compress: closing lz4 frame")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Errorf("serialize.compress: unknown compression type %d", c)
	}
}

func decompress(data []byte, c format.CompressionType) ([]byte, error) {
	switch c {
	case format.CompressionNone:
		return data, nil
	case format.CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errors.Wrap(err, "serialize.decompress: creating zstd reader")
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Wrap(err, "serialize.decompress: decoding zstd frame")
		}
		return out, nil
	case format.CompressionLZ4:
		r := lz4.NewReader(bytes.NewReader(data))
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "serialize.decompress: reading lz4 frame")
		}
		return out, nil
	default:
		return nil, errors.Errorf("serialize.decompress: unknown compression type %d", c)
	}
}

// Read decodes a container written by Write, validating each track's
// checksum as it unpacks the bone stream set.
func Read(data []byte) (bonestream.Set, error) {
	if len(data) < 8 || [4]byte{data[0], data[1], data[2], data[3]} != magic {
		return nil, errors.New("serialize.Read: bad magic")
	}
	version := data[4]
	if version != containerVersion {
		return nil, errors.Errorf("serialize.Read: unsupported version %d", version)
	}
	compression := format.CompressionType(data[5])

	body, err := decompress(data[8:], compression)
	if err != nil {
		return nil, err
	}

	cur := NewCursor("container", body)
	numBones := int(cur.ReadU32())
	numRecords := int(cur.ReadU32())
	if numRecords != numBones*2 {
		return nil, errors.Errorf("serialize.Read: %d records for %d bones", numRecords, numBones)
	}

	records := make([]trackRecord, numRecords)
	for i := range records {
		records[i] = readRecord(cur)
	}

	bones := make(bonestream.Set, numBones)
	for i := 0; i < numBones; i++ {
		rotRec := records[i*2]
		transRec := records[i*2+1]

		bones[i].IsRotationDefault = rotRec.IsDefault
		bones[i].IsRotationConstant = rotRec.IsConstant
		bones[i].IsTranslationDefault = transRec.IsDefault
		bones[i].IsTranslationConstant = transRec.IsConstant

		if !rotRec.IsDefault {
			payload := cur.Read(int(rotRec.Count) * int(rotRec.ByteWidth))
			s := track.NewRotationStream(int(rotRec.Count), 0, rotRec.RotFormat, rotRec.BitRate)
			s.LoadRaw(payload)
			if xxhash.Sum64(payload) != rotRec.Checksum {
				return nil, errors.Errorf("serialize.Read: checksum mismatch on bone %d rotation track", i)
			}
			bones[i].Rotation = s
		}
		if !transRec.IsDefault {
			payload := cur.Read(int(transRec.Count) * int(transRec.ByteWidth))
			s := track.NewTranslationStream(int(transRec.Count), 0, transRec.VecFormat, transRec.BitRate)
			s.LoadRaw(payload)
			if xxhash.Sum64(payload) != transRec.Checksum {
				return nil, errors.Errorf("serialize.Read: checksum mismatch on bone %d translation track", i)
			}
			bones[i].Translation = s
		}
	}
	return bones, nil
}

func readRecord(cur *Cursor) trackRecord {
	kind := track.Kind(cur.ReadByte())
	rotFormat := format.RotationFormat(cur.ReadByte())
	vecFormat := format.VectorFormat(cur.ReadByte())
	bitRate := format.BitRate(int32(cur.ReadU32()))
	isDefault := cur.ReadByte() != 0
	isConstant := cur.ReadByte() != 0
	count := cur.ReadU32()
	byteWidth := cur.ReadU32()
	checksum := cur.ReadU64()
	return trackRecord{
		Kind: kind, RotFormat: rotFormat, VecFormat: vecFormat, BitRate: bitRate,
		IsDefault: isDefault, IsConstant: isConstant, Count: count, ByteWidth: byteWidth, Checksum: checksum,
	}
}
