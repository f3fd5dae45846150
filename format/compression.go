package format

// CompressionType selects the general-purpose codec serialize wraps a
// container in, orthogonal to the per-track quantization format above.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores the container as-is.
	CompressionZstd CompressionType = 0x2 // CompressionZstd wraps it in a zstd frame.
	CompressionLZ4  CompressionType = 0x3 // CompressionLZ4 wraps it in an LZ4 frame.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
