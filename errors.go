package unpaker

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mxtherfxcker/unpaker/internal/breader"
	"github.com/mxtherfxcker/unpaker/internal/decoder"
)

// Sentinel error kinds exposed by the engine, per spec.md §7. Wrapped
// errors returned from Open/Extract can be matched against these with
// errors.Is, since github.com/pkg/errors preserves the wrapped chain.
var (
	// ErrNotFound means the archive path does not exist.
	ErrNotFound = errors.New("unpaker: archive not found")
	// ErrBadMagic means the archive is too short to carry a 4-byte magic;
	// a full header that matches no known magic selects Generic instead.
	ErrBadMagic = errors.New("unpaker: unrecognized archive format")

	// ErrOutOfBounds re-exports the byte reader's bounds failure.
	ErrOutOfBounds = breader.ErrOutOfBounds
	// ErrTruncatedString re-exports the byte reader's truncated-string failure.
	ErrTruncatedString = breader.ErrTruncatedString
)

// ParseFailed means the chosen decoder could not produce a usable index.
type ParseFailed struct {
	Reason string
	cause  error
}

func (e *ParseFailed) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("unpaker: parse failed: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("unpaker: parse failed: %s", e.Reason)
}

func (e *ParseFailed) Unwrap() error { return e.cause }

// ExtractFailed means every candidate physical file failed during
// extraction; Attempted lists the paths tried in order, starting with the
// archive itself or the derived sibling path.
type ExtractFailed struct {
	Attempted []string
	cause     error
}

func (e *ExtractFailed) Error() string {
	return fmt.Sprintf("unpaker: extract failed, attempted %v: %v", e.Attempted, e.cause)
}

func (e *ExtractFailed) Unwrap() error { return e.cause }

// OverlongString re-exports the byte-reader overlong-string failure type.
type OverlongString = breader.ErrOverlongString

// ErrRangeOutOfBounds re-exports the decoder package's range-read failure.
var ErrRangeOutOfBounds = decoder.ErrRangeOutOfBounds
