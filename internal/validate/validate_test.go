package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxtherfxcker/unpaker/internal/tree"
)

func buildTree(files ...*tree.FileEntry) *tree.DirectoryEntry {
	root := tree.NewRoot("archive")
	root.Files = files
	tree.Build(root)
	return root
}

func TestValidateCleanTree(t *testing.T) {
	root := buildTree(
		&tree.FileEntry{Path: "a/one.txt", Size: 10, ArchiveIndex: tree.ArchiveSelf, Offset: 0},
		&tree.FileEntry{Path: "a/two.txt", Size: 20, ArchiveIndex: tree.ArchiveSelf, Offset: 10},
	)

	rep := Validate(root, 1000)
	require.NotNil(t, rep)
	assert.Equal(t, 2, rep.TotalFiles)
	assert.Zero(t, rep.DuplicatePaths)
	assert.Zero(t, rep.InvalidEntries)
	assert.Zero(t, rep.ZeroSizeFiles)
}

func TestValidateDetectsDuplicates(t *testing.T) {
	root := tree.NewRoot("archive")
	// Build does not merge entries that share a path: both land in the
	// same directory's Files. The tree is assembled by hand here, with two
	// same-named files in one directory.
	a := &tree.DirectoryEntry{Name: "dir"}
	a.Files = append(a.Files,
		&tree.FileEntry{Name: "dup.txt", Size: 1},
		&tree.FileEntry{Name: "dup.txt", Size: 2},
	)
	root.Subdirectories = append(root.Subdirectories, a)
	a.Parent = root

	rep := Validate(root, 0)
	assert.Equal(t, 2, rep.TotalFiles)
	assert.Equal(t, 1, rep.DuplicatePaths)
}

func TestValidateZeroSizeFile(t *testing.T) {
	root := buildTree(&tree.FileEntry{Path: "empty.dat", Size: 0})

	rep := Validate(root, 0)
	assert.Equal(t, 1, rep.ZeroSizeFiles)
}

func TestValidateInvalidPathCharacters(t *testing.T) {
	root := tree.NewRoot("archive")
	root.Files = []*tree.FileEntry{{Name: "bad\x01name.txt", Size: 1}}

	rep := Validate(root, 0)
	assert.Equal(t, 1, rep.InvalidEntries)
}

func TestValidateOutOfBoundsEntry(t *testing.T) {
	root := buildTree(&tree.FileEntry{
		Path: "big.dat", Offset: 90, Size: 50, ArchiveIndex: tree.ArchiveSelf,
	})

	rep := Validate(root, 100) // offset+size = 140 > 100
	assert.Equal(t, 1, rep.InvalidEntries)
}
