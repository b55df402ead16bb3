package ingest

// stream.go prepares raw upload bytes for the CSV reader without buffering the whole file:
//
//   - A leading byte order mark is stripped. UTF-16 input announced by its BOM is
//     transcoded to UTF-8.
//   - Invalid UTF-8 sequences are replaced with U+FFFD so a stray byte cannot abort
//     the import.
//   - Bytes consumed from the source are counted for progress reporting.

import (
	"io"
	"sync/atomic"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CountingReader tracks the bytes read from the wrapped reader. The count may be read
// from another goroutine while an import is running.
type CountingReader struct {
	reader io.Reader
	read   atomic.Int64
	total  int64
}

// NewCountingReader wraps r. total is the expected size, or 0 when unknown.
func NewCountingReader(r io.Reader, total int64) *CountingReader {
	return &CountingReader{reader: r, total: total}
}

func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.read.Add(int64(n))
	return n, err
}

// BytesRead returns the number of source bytes consumed so far.
func (r *CountingReader) BytesRead() int64 {
	return r.read.Load()
}

// Progress returns the read progress as a percentage, or 0 when the total is unknown.
func (r *CountingReader) Progress() int {
	if r.total <= 0 {
		return 0
	}
	p := int(r.read.Load() * 100 / r.total)
	if p > 100 {
		return 100
	}
	return p
}

// WrapForStreaming returns a UTF-8 reader over r and the counter attached to the source.
// Counting sits under the decoder so progress reflects bytes of the original file.
func WrapForStreaming(r io.Reader, totalSize int64) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r, totalSize)
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(counter, decoder), counter
}
