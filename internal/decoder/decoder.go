// Package decoder defines the capability set every format-specific decoder
// implements: parse the index into a flat FileEntry list, and extract a
// single entry's payload from the archive file itself (used directly by
// the Generic decoder and as the "same file" case for the others).
package decoder

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mxtherfxcker/unpaker/internal/tree"
)

// ErrRangeOutOfBounds is returned by ReadRange when offset itself is
// beyond the archive length (as opposed to offset+size, which is handled
// as a short read rather than a hard failure).
var ErrRangeOutOfBounds = errors.New("decoder: offset beyond archive length")

// Limits bounds how much of an archive's wire format a decoder will trust,
// carried in from the root Config so decoders never hard-code magic
// numbers the caller can't override for a particular game's archives.
type Limits struct {
	MaxExtensionLen int
	MaxDirLen       int
	MaxFilenameLen  int
	MaxUEPathLen    int
	UEEntryCap      uint32
	UEEntrySafeCap  uint32
	ResyncScanBytes int
}

// DefaultLimits mirrors the per-caller M values in spec.md §4.1/§4.3.
func DefaultLimits() Limits {
	return Limits{
		MaxExtensionLen: 50,
		MaxDirLen:       512,
		MaxFilenameLen:  512,
		MaxUEPathLen:    512,
		UEEntryCap:      100000,
		UEEntrySafeCap:  256,
		ResyncScanBytes: 10000,
	}
}

// Result is what a decoder's Parse produces: the flat entry list plus a
// count of entries discarded to per-entry corruption (spec.md's
// "Malformed" counting, non-fatal to the overall parse).
type Result struct {
	Entries   []*tree.FileEntry
	Discarded int
	// EntryCountCapped records whether a decoder substituted a safety cap
	// for an implausible header-declared entry count (UE PAK, spec.md §9
	// Open Question (a)).
	EntryCountCapped bool
	// ResyncOffset is set when a decoder had to recover from a
	// corrupt/implausible header field by scanning for a plausible
	// restart point (VPK directory-only variant, spec.md §4.3).
	ResyncOffset int64
	ResyncUsed   bool
}

// Decoder is implemented once per container family.
type Decoder interface {
	// Parse reads a's index and returns the flat entries it found. An
	// empty, non-nil Result with a nil error means the format was
	// recognized but produced zero entries; a non-nil error means parsing
	// could not proceed at all (spec.md's ParseFailed).
	Parse(a io.ReaderAt, length int64) (*Result, error)
}

// SelfExtractor is implemented by decoders whose entries can be read
// directly from the archive file when ArchiveIndex is tree.ArchiveSelf
// (all of them) or always (Generic, which has no sibling concept at all).
type SelfExtractor interface {
	ExtractSelf(a io.ReaderAt, length int64, offset, size uint64) ([]byte, error)
}

// ReadRange reads up to size bytes at offset from r, which is bounded to
// length. If offset is beyond length, it fails; if offset+size exceeds
// length, it returns the available prefix (a short read) along with a
// nil error, matching spec.md §4.7's short-read tolerance.
func ReadRange(r io.ReaderAt, length int64, offset, size uint64) ([]byte, error) {
	if offset > uint64(length) {
		return nil, ErrRangeOutOfBounds
	}
	avail := uint64(length) - offset
	n := size
	if n > avail {
		n = avail
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := r.ReadAt(buf, int64(offset)); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
