// Package vpk decodes Valve Software's VPK container family: the combined
// v1/v2 single-file index and the directory-only ("_dir.vpk") variant.
// Entry metadata layout and the ext/dir/file interleaved string tree are
// grounded on github.com/BenLubar/vpk; the header variants, tree-size
// clamping, resync scan, and per-entry validation are grounded on
// unPAKer's src/parsers/vpk_parser.cpp.
package vpk

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mxtherfxcker/unpaker/internal/breader"
	"github.com/mxtherfxcker/unpaker/internal/decoder"
	"github.com/mxtherfxcker/unpaker/internal/tree"
)

const (
	magicVPK    uint32 = 0x55AA1234
	magicVPKDir uint32 = 0x00465456
	termFlag    uint16 = 0xFFFF

	entryMetaSizeV1v2 = 4 + 4 + 4 + 4 + 2 // crc, archive_index, offset, size, terminator
)

// ErrLikelySiblingArchive is returned when Parse is handed a numbered data
// archive (e.g. "pak_002.vpk") instead of its "_dir.vpk" index, detected
// heuristically from the filename the way unPAKer's original parser did.
var ErrLikelySiblingArchive = errors.New("vpk: file looks like a data-only sibling archive; open the _dir.vpk index instead")

// Decoder implements decoder.Decoder for the VPK family.
type Decoder struct {
	Limits   decoder.Limits
	Filename string // original archive filename, used only for the sibling-archive diagnostic
}

var _ decoder.Decoder = (*Decoder)(nil)
var _ decoder.SelfExtractor = (*Decoder)(nil)

// ExtractSelf reads size bytes at offset directly from the index archive,
// used when ArchiveIndex == tree.ArchiveSelf.
func (d *Decoder) ExtractSelf(a io.ReaderAt, length int64, offset, size uint64) ([]byte, error) {
	return decoder.ReadRange(a, length, offset, size)
}

// Parse reads the VPK index (v1, v2, or directory-only) and returns its
// flat entry list.
func (d *Decoder) Parse(a io.ReaderAt, length int64) (*decoder.Result, error) {
	br := breader.Open(a, length)

	if length < 8 {
		return nil, errors.New("vpk: archive too small for a header")
	}

	magic, err := br.ReadU32(0)
	if err != nil {
		return nil, errors.Wrap(err, "vpk: read magic")
	}

	switch magic {
	case magicVPK:
		return d.parseV1V2(br)
	case magicVPKDir:
		return d.parseDirOnly(br)
	default:
		if looksLikeSibling(d.Filename) {
			return nil, ErrLikelySiblingArchive
		}
		return nil, errors.Errorf("vpk: invalid signature 0x%08x", magic)
	}
}

func looksLikeSibling(name string) bool {
	for _, suf := range []string{"_0", "_1", "_2"} {
		if containsSeq(name, suf) {
			return true
		}
	}
	return false
}

func containsSeq(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// parseV1V2 handles the combined single-file index: magic at 0, then
// version/tree_size at 4, and if version==2 a further 16 bytes of section
// sizes and CRCs before the tree starts.
func (d *Decoder) parseV1V2(br *breader.Reader) (*decoder.Result, error) {
	version, err := br.ReadU32(4)
	if err != nil {
		return nil, errors.Wrap(err, "vpk: read version")
	}

	treeSize, err := br.ReadU32(8)
	if err != nil {
		return nil, errors.Wrap(err, "vpk: read tree_size")
	}

	treeOffset := int64(12)
	if version == 2 {
		treeOffset = 28
	}

	treeSize = clampTreeSize(treeSize, br.Len(), treeOffset)
	treeEnd := treeOffset + int64(treeSize)

	res := &decoder.Result{}
	walkTree(br, treeOffset, treeEnd, d.Limits, res)
	return res, nil
}

// parseDirOnly handles the directory-only variant: magic at 0, six u32
// header fields, tree at 28. If tree_size is zero or implausible, it
// falls back to a linear resync scan for a plausible extension/directory
// string pair, per spec.md §4.3.
func (d *Decoder) parseDirOnly(br *breader.Reader) (*decoder.Result, error) {
	treeSize, err := br.ReadU32(12) // version(4) tree_crc(8) tree_size(12)
	if err != nil {
		return nil, errors.Wrap(err, "vpk: read tree_size")
	}

	const nominalTreeStart = 28
	treeOffset := int64(nominalTreeStart)
	res := &decoder.Result{}

	remaining := br.Len() - nominalTreeStart
	if treeSize == 0 || remaining < 0 || int64(treeSize) > remaining {
		found, offset := resyncScan(br, nominalTreeStart, d.Limits)
		if found {
			treeOffset = offset
			res.ResyncUsed = true
			res.ResyncOffset = offset
		}
		// tree_size stays unknown; parse until a clean stop condition or EOF.
		treeEnd := br.Len()
		walkTree(br, treeOffset, treeEnd, d.Limits, res)
		return res, nil
	}

	treeEnd := treeOffset + int64(treeSize)
	walkTree(br, treeOffset, treeEnd, d.Limits, res)
	return res, nil
}

// clampTreeSize implements spec.md §4.3's "clamps tree_size to the
// remaining file length" policy.
func clampTreeSize(treeSize uint32, fileLen, treeOffset int64) uint32 {
	remaining := fileLen - treeOffset
	if remaining < 0 {
		return 0
	}
	if int64(treeSize) > remaining {
		return uint32(remaining)
	}
	return treeSize
}

// resyncScan probes every 4 bytes from start for a plausible extension
// string (length 1-20, all bytes 0x20-0x7E) followed by a plausible
// directory string, returning the offset of the first match.
func resyncScan(br *breader.Reader, start int64, lim decoder.Limits) (bool, int64) {
	maxScan := int64(lim.ResyncScanBytes)
	limit := br.Len()
	if start+maxScan < limit {
		limit = start + maxScan
	}

	for pos := start; pos < limit; pos += 4 {
		ext, next, err := br.ReadCString(pos, 20, 0)
		if err != nil || !plausibleString(ext, 1, 20) {
			continue
		}
		dir, _, err := br.ReadCString(next, lim.MaxDirLen, 0)
		if err != nil || !plausibleString(dir, 1, lim.MaxDirLen) {
			continue
		}
		return true, pos
	}
	return false, 0
}

func plausibleString(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

// walkTree runs the interleaved extension/directory/file string loop
// common to both VPK variants between [start, end), appending accepted
// entries to res and incrementing res.Discarded for rejected ones. It
// implements the state machine from spec.md's "VPK tree parser state"
// section: the innermost loop that errors exits to its enclosing loop
// rather than aborting the whole parse.
func walkTree(br *breader.Reader, start, end int64, lim decoder.Limits, res *decoder.Result) {
	pos := start

	for pos < end {
		ext, next, err := br.ReadCString(pos, lim.MaxExtensionLen, lim.ResyncScanBytes)
		if err != nil {
			var overlong breader.ErrOverlongString
			if errors.As(err, &overlong) {
				res.Discarded++
				pos = next
				continue
			}
			return
		}
		pos = next

		if ext == "" {
			term, err := br.ReadU16(pos)
			if err != nil {
				return
			}
			if term == termFlag {
				return // clean stop: empty extension followed by 0xFFFF
			}
			continue
		}

		if !validString(ext) || len(ext) > lim.MaxExtensionLen {
			res.Discarded++
			// This extension's directories are not walked; pos is already
			// past this ext's bytes and the next string is read as an
			// extension.
			continue
		}

		walkDirectories(br, &pos, end, ext, lim, res)
	}
}

func walkDirectories(br *breader.Reader, pos *int64, end int64, ext string, lim decoder.Limits, res *decoder.Result) {
	for *pos < end {
		dir, next, err := br.ReadCString(*pos, lim.MaxDirLen, lim.ResyncScanBytes)
		if err != nil {
			var overlong breader.ErrOverlongString
			if errors.As(err, &overlong) {
				res.Discarded++
				*pos = next
				continue
			}
			return
		}
		*pos = next

		if dir == "" {
			return // empty directory name ends this extension's directory loop
		}

		if !validString(dir) || len(dir) > lim.MaxDirLen {
			res.Discarded++
			continue
		}

		walkFiles(br, pos, end, ext, dir, lim, res)
	}
}

func walkFiles(br *breader.Reader, pos *int64, end int64, ext, dir string, lim decoder.Limits, res *decoder.Result) {
	for *pos < end {
		before := *pos
		name, next, err := br.ReadCString(*pos, lim.MaxFilenameLen, lim.ResyncScanBytes)
		if err != nil {
			var overlong breader.ErrOverlongString
			if errors.As(err, &overlong) {
				res.Discarded++
				*pos = next
				continue
			}
			return
		}
		*pos = next

		if name == "" {
			return // empty filename ends this directory's file loop
		}

		advanced := *pos - before
		if advanced != int64(len(name))+1 {
			// cursor didn't land where a well-formed string would put it;
			// re-seek to the expected position before reading metadata.
			*pos = before + int64(len(name)) + 1
		}

		if *pos+entryMetaSizeV1v2 > end {
			res.Discarded++
			return
		}

		crc, err1 := br.ReadU32(*pos)
		archiveIndex, err2 := br.ReadU32(*pos + 4)
		offset, err3 := br.ReadU32(*pos + 8)
		size, err4 := br.ReadU32(*pos + 12)
		term, err5 := br.ReadU16(*pos + 16)
		_ = crc
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			res.Discarded++
			return
		}
		*pos += entryMetaSizeV1v2

		if term != termFlag {
			res.Discarded++
			continue // resync: discard this entry, read the next filename in this directory
		}

		if !validString(name) || len(name) > lim.MaxFilenameLen {
			res.Discarded++
			continue
		}

		entry := &tree.FileEntry{
			Name:         name + "." + ext,
			Path:         assemblePath(dir, name, ext),
			Offset:       uint64(offset),
			Size:         uint64(size),
			ArchiveIndex: int32(archiveIndex),
		}
		res.Entries = append(res.Entries, entry)
	}
}

// assemblePath implements spec.md §4.3's path-assembly rule: dir==" " or
// dir=="" means root-level.
func assemblePath(dir, name, ext string) string {
	if dir == " " || dir == "" {
		return name + "." + ext
	}
	return dir + "/" + name + "." + ext
}

func validString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}
