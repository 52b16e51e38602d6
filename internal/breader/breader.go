// Package breader provides bounded, positional reads over an archive file
// whose length is captured at open time. Every read checks the requested
// range against that length before touching the underlying reader.
package breader

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrOutOfBounds is returned when a requested range escapes the reader's
// captured length.
var ErrOutOfBounds = errors.New("breader: read out of bounds")

// ErrTruncatedString is returned when EOF is reached before a null
// terminator.
var ErrTruncatedString = errors.New("breader: truncated string")

// ErrOverlongString is returned when a null-terminated string read exceeds
// its caller-supplied maximum length without finding a terminator. The
// reader's cursor is left positioned past the next terminator it could
// find, capped at maxScan, so callers can attempt to resync.
type ErrOverlongString struct {
	Limit int
}

func (e ErrOverlongString) Error() string {
	return "breader: string exceeded maximum length"
}

// Reader is a bounded view over an io.ReaderAt and the length captured for
// it at Open. It performs no caching of its own; the underlying ReaderAt
// may be backed by an os.File, a bytes.Reader, or a memory-mapped region.
type Reader struct {
	r      io.ReaderAt
	length int64
}

// Open captures the length of r (via the given size) and returns a Reader
// bounded to it.
func Open(r io.ReaderAt, length int64) *Reader {
	return &Reader{r: r, length: length}
}

// Len returns the captured length of the underlying file.
func (b *Reader) Len() int64 { return b.length }

func (b *Reader) bounds(pos int64, n int64) error {
	if pos < 0 || n < 0 || pos > b.length || n > b.length-pos {
		return errors.Wrapf(ErrOutOfBounds, "pos=%d n=%d length=%d", pos, n, b.length)
	}
	return nil
}

// ReadExact reads exactly n bytes at pos, failing with ErrOutOfBounds if
// the range escapes the captured length.
func (b *Reader) ReadExact(pos int64, n int) ([]byte, error) {
	if err := b.bounds(pos, int64(n)); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := b.r.ReadAt(buf, pos); err != nil {
		return nil, errors.Wrapf(err, "breader: short read at %d", pos)
	}
	return buf, nil
}

// ReadU16 reads a little-endian uint16 at pos.
func (b *Reader) ReadU16(pos int64) (uint16, error) {
	buf, err := b.ReadExact(pos, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadU32 reads a little-endian uint32 at pos.
func (b *Reader) ReadU32(pos int64) (uint32, error) {
	buf, err := b.ReadExact(pos, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadU64 reads a little-endian uint64 at pos.
func (b *Reader) ReadU64(pos int64) (uint64, error) {
	buf, err := b.ReadExact(pos, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadCString reads a null-terminated string starting at pos, accepting at
// most maxLen bytes of content (not counting the terminator). It returns
// the string and the position just past the terminator.
//
// If EOF is hit before a terminator, it fails with ErrTruncatedString. If
// maxLen content bytes are consumed without finding a terminator, it fails
// with ErrOverlongString and the position returned is just past the next
// terminator it could locate (scanning at most maxScan further bytes),
// so the caller can attempt to resync parsing from there.
func (b *Reader) ReadCString(pos int64, maxLen int, maxScan int) (string, int64, error) {
	cur := pos
	var buf []byte
	for {
		if err := b.bounds(cur, 1); err != nil {
			return "", cur, ErrTruncatedString
		}
		c, err := b.ReadExact(cur, 1)
		if err != nil {
			return "", cur, ErrTruncatedString
		}
		cur++
		if c[0] == 0 {
			return string(buf), cur, nil
		}
		if len(buf) >= maxLen {
			resyncPos, ok := b.scanForNull(cur, maxScan)
			if !ok {
				return "", cur, ErrOverlongString{Limit: maxLen}
			}
			return "", resyncPos, ErrOverlongString{Limit: maxLen}
		}
		buf = append(buf, c[0])
	}
}

func (b *Reader) scanForNull(from int64, maxScan int) (int64, bool) {
	cur := from
	for i := 0; i < maxScan; i++ {
		if err := b.bounds(cur, 1); err != nil {
			return cur, false
		}
		c, err := b.ReadExact(cur, 1)
		if err != nil {
			return cur, false
		}
		cur++
		if c[0] == 0 {
			return cur, true
		}
	}
	return cur, false
}
