// Package validate walks a parsed tree reporting duplicates, zero-size
// files, out-of-archive offsets, and non-printable paths without mutating
// the tree. Grounded on unPAKer's include/file_validator.hpp and
// src/file_validator.cpp, with duplicate tracking adapted from
// github.com/BenLubar/vpk's cmd/vpkcollision, which uses the same
// sorted-tree approach to spot colliding paths across archives.
package validate

import (
	"github.com/petar/GoLLRB/llrb"

	"github.com/mxtherfxcker/unpaker/internal/tree"
)

// Report is the structured output of a validation pass, per spec.md §4.8.
type Report struct {
	TotalFiles     int
	DuplicatePaths int
	InvalidEntries int
	ZeroSizeFiles  int

	Errors   []string
	Warnings []string
}

// pathKey adapts a string path to llrb.Item for duplicate detection, the
// same pattern cmd/vpkcollision uses for cross-archive path collisions.
type pathKey string

func (k pathKey) Less(other llrb.Item) bool {
	return k < other.(pathKey)
}

// ArchiveLength bounds offset+size validity. Some callers (Generic, a
// decoder-less fallback) have no meaningful length to check against; pass
// 0 to skip the bounds check.
func Validate(root *tree.DirectoryEntry, archiveLength int64) *Report {
	rep := &Report{}
	seen := llrb.New()

	tree.WalkFiles(root, func(dir *tree.DirectoryEntry, f *tree.FileEntry) {
		rep.TotalFiles++

		path := tree.FileFullPath(dir, f)
		key := pathKey(path)
		if item := seen.Get(key); item != nil {
			rep.DuplicatePaths++
			rep.Warnings = append(rep.Warnings, "duplicate path: "+path)
		} else {
			seen.InsertNoReplace(key)
		}

		if f.Size == 0 {
			rep.ZeroSizeFiles++
			rep.Warnings = append(rep.Warnings, "zero-size file: "+path)
		}

		if !validPath(path) {
			rep.InvalidEntries++
			rep.Errors = append(rep.Errors, "invalid characters in path: "+path)
		}

		if archiveLength > 0 && f.ArchiveIndex == tree.ArchiveSelf {
			if f.Offset+f.Size > uint64(archiveLength) {
				rep.InvalidEntries++
				rep.Errors = append(rep.Errors, "out-of-bounds entry: "+path)
			}
		}
	})

	return rep
}

// validPath rechecks spec.md §4.3's character-range rule against the
// fully assembled path, which also allows '/'.
func validPath(p string) bool {
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			continue
		}
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}
