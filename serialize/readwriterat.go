package serialize

import "io"

// ReaderWriterAt is a storage abstraction: anything that can be read and
// written at arbitrary offsets and knows its own size, e.g. an *os.File.
// Write and Read work on in-memory byte slices and do not use it.
type ReaderWriterAt interface {
	io.ReaderAt
	io.WriterAt
	Size() int64
}

type readerWriterAt struct {
	r    io.ReaderAt
	w    io.WriterAt
	size int64
}

func (rw *readerWriterAt) Size() int64 { return rw.size }

func (rw *readerWriterAt) WriteAt(p []byte, off int64) (int, error) { return rw.w.WriteAt(p, off) }

func (rw *readerWriterAt) ReadAt(p []byte, off int64) (int, error) { return rw.r.ReadAt(p, off) }

// NewReaderWriterAt combines a reader and writer over the same offsets into
// one ReaderWriterAt of the given size.
func NewReaderWriterAt(r io.ReaderAt, w io.WriterAt, size int64) ReaderWriterAt {
	return &readerWriterAt{r: r, w: w, size: size}
}
