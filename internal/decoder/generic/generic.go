// Package generic implements the fallback decoder for archives detect
// couldn't classify. It never produces an index — there is no tree to
// walk — but it still lets the caller read a raw offset/size range out of
// the file, mirroring unPAKer's src/parsers/generic_parser.cpp.
package generic

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mxtherfxcker/unpaker/internal/decoder"
)

// ErrNoIndex is returned by Parse: the Generic format has no recognizable
// index to read.
var ErrNoIndex = errors.New("generic: format has no index to parse")

// Decoder implements decoder.Decoder and decoder.SelfExtractor for
// unrecognized archives.
type Decoder struct{}

var _ decoder.Decoder = Decoder{}
var _ decoder.SelfExtractor = Decoder{}

// Parse always fails: a Generic archive's bytes are opaque.
func (Decoder) Parse(a io.ReaderAt, length int64) (*decoder.Result, error) {
	return nil, ErrNoIndex
}

// ExtractSelf reads size bytes at offset directly, the only operation a
// Generic archive supports.
func (Decoder) ExtractSelf(a io.ReaderAt, length int64, offset, size uint64) ([]byte, error) {
	return decoder.ReadRange(a, length, offset, size)
}
