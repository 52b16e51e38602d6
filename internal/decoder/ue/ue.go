// Package ue decodes Unreal Engine 3/4/5 PAK archives: a single-file index
// with a header magic/version, a footer entry count, and a flat run of
// path/offset/size records starting at byte 8. Grounded on
// unPAKer's src/parsers/ue_parser.cpp, including its 256-entry safety cap
// for an implausible footer count.
package ue

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mxtherfxcker/unpaker/internal/breader"
	"github.com/mxtherfxcker/unpaker/internal/decoder"
	"github.com/mxtherfxcker/unpaker/internal/tree"
)

const entriesStart = 8

// Decoder implements decoder.Decoder for Unreal Engine PAK archives.
type Decoder struct {
	Limits decoder.Limits
}

var _ decoder.Decoder = (*Decoder)(nil)
var _ decoder.SelfExtractor = (*Decoder)(nil)

// ExtractSelf reads size bytes at offset directly from the archive;
// every UE PAK entry has ArchiveIndex == tree.ArchiveSelf.
func (d *Decoder) ExtractSelf(a io.ReaderAt, length int64, offset, size uint64) ([]byte, error) {
	return decoder.ReadRange(a, length, offset, size)
}

// Parse reads the entry-count footer and then walks the entries starting
// at offset 8, skipping any whose offset or size exceeds the archive
// length.
func (d *Decoder) Parse(a io.ReaderAt, length int64) (*decoder.Result, error) {
	if length < 12 {
		return nil, errors.New("ue: archive too small for header and footer")
	}

	br := breader.Open(a, length)

	count, err := br.ReadU32(length - 4)
	if err != nil {
		return nil, errors.Wrap(err, "ue: read entry count footer")
	}

	res := &decoder.Result{}
	if count > d.Limits.UEEntryCap {
		res.EntryCountCapped = true
		count = d.Limits.UEEntrySafeCap
	}

	pos := int64(entriesStart)
	for i := uint32(0); i < count; i++ {
		if pos+4 > length {
			break
		}
		pathLen, err := br.ReadU32(pos)
		if err != nil {
			break
		}
		pos += 4

		if pathLen == 0 || int(pathLen) > d.Limits.MaxUEPathLen {
			break
		}

		pathBytes, err := br.ReadExact(pos, int(pathLen))
		if err != nil {
			break
		}
		pos += int64(pathLen)

		offset, err := br.ReadU64(pos)
		if err != nil {
			break
		}
		pos += 8

		size, err := br.ReadU64(pos)
		if err != nil {
			break
		}
		pos += 8

		if offset > uint64(length) || size > uint64(length) {
			res.Discarded++
			continue
		}

		name := string(pathBytes)
		res.Entries = append(res.Entries, &tree.FileEntry{
			Name:         name,
			Path:         name,
			Offset:       offset,
			Size:         size,
			ArchiveIndex: tree.ArchiveSelf,
		})
	}

	return res, nil
}
