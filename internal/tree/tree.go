// Package tree builds a rooted directory hierarchy out of the flat entry
// list a decoder produces, and defines the FileEntry/DirectoryEntry types
// shared by the rest of the engine.
package tree

import (
	"strings"

	radix "github.com/armon/go-radix"
)

// ArchiveSelf is the sentinel ArchiveIndex meaning "payload lives in the
// same physical file as the index".
const ArchiveSelf = 0x7FFF

// FileEntry is one payload record produced by a decoder.
type FileEntry struct {
	Name         string
	Path         string
	Offset       uint64
	Size         uint64
	ArchiveIndex int32
}

// IsDirectory is always false for FileEntry; it exists so callers that
// walk a mixed slice of files/directories by a common shape don't need a
// type switch everywhere.
func (*FileEntry) IsDirectory() bool { return false }

// DirectoryEntry is an internal tree node. Parent is navigational only —
// it must never be treated as an ownership edge; the arena for a tree is
// the root DirectoryEntry's own file/subdirectory slices.
type DirectoryEntry struct {
	Name           string
	Files          []*FileEntry
	Subdirectories []*DirectoryEntry
	Parent         *DirectoryEntry
}

// IsDirectory is always true for DirectoryEntry.
func (*DirectoryEntry) IsDirectory() bool { return true }

// NewRoot creates an empty root directory named name, ready to receive a
// flat Files list before Build is called.
func NewRoot(name string) *DirectoryEntry {
	return &DirectoryEntry{Name: name}
}

// Build redistributes root's flat Files list into a directory hierarchy by
// splitting each entry's Path on '/' or '\'. The final path segment
// becomes the FileEntry's Name; the entry moves into the terminal
// directory's Files list. After Build, root.Files no longer contains any
// entry that had a directory component.
//
// Sibling order within a directory is preserved (insertion order from the
// decoder), matching spec.md's ordering guarantee.
func Build(root *DirectoryEntry) {
	dirs := radix.New()
	dirs.Insert("", root)

	var remaining []*FileEntry

	for _, f := range root.Files {
		segments := splitPath(f.Path)
		if len(segments) == 0 {
			remaining = append(remaining, f)
			continue
		}

		current := root
		currentKey := ""
		for _, seg := range segments[:len(segments)-1] {
			if seg == "" || seg == "." {
				continue
			}
			childKey := currentKey + "/" + seg
			if v, ok := dirs.Get(childKey); ok {
				current = v.(*DirectoryEntry)
			} else {
				child := &DirectoryEntry{Name: seg, Parent: current}
				current.Subdirectories = append(current.Subdirectories, child)
				dirs.Insert(childKey, child)
				current = child
			}
			currentKey = childKey
		}

		f.Name = segments[len(segments)-1]
		if current == root {
			remaining = append(remaining, f)
			continue
		}
		current.Files = append(current.Files, f)
	}

	root.Files = remaining
}

// splitPath splits p on both '/' and '\', matching spec.md's Tree Builder
// algorithm, which accepts '\' as an alternate separator.
func splitPath(p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Walk invokes fn for every DirectoryEntry in the tree rooted at root,
// depth-first, visiting a directory before its subdirectories.
func Walk(root *DirectoryEntry, fn func(*DirectoryEntry)) {
	fn(root)
	for _, sub := range root.Subdirectories {
		Walk(sub, fn)
	}
}

// AllFiles collects every FileEntry reachable from root, depth-first.
func AllFiles(root *DirectoryEntry) []*FileEntry {
	var out []*FileEntry
	Walk(root, func(d *DirectoryEntry) {
		out = append(out, d.Files...)
	})
	return out
}

// WalkFiles invokes fn for every (directory, file) pair reachable from
// root, depth-first. This is the counterpart to Walk for callers that need
// to know which directory currently owns a FileEntry, since FileEntry
// itself carries no parent back-reference (only DirectoryEntry does).
func WalkFiles(root *DirectoryEntry, fn func(dir *DirectoryEntry, f *FileEntry)) {
	Walk(root, func(d *DirectoryEntry) {
		for _, f := range d.Files {
			fn(d, f)
		}
	})
}

// FileFullPath reconstructs the slash-joined path from root to f, given
// the directory that currently owns f.
func FileFullPath(owner *DirectoryEntry, f *FileEntry) string {
	prefix := FullPath(owner)
	if prefix == "" {
		return f.Name
	}
	return prefix + "/" + f.Name
}

// FullPath reconstructs the slash-joined path from root to d by walking
// parent back-references. It never relies on Parent for ownership, only
// for this read-only reconstruction.
func FullPath(d *DirectoryEntry) string {
	if d.Parent == nil {
		return ""
	}
	prefix := FullPath(d.Parent)
	if prefix == "" {
		return d.Name
	}
	return prefix + "/" + d.Name
}
