package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBasic(t *testing.T) {
	root := NewRoot("game.vpk")
	root.Files = []*FileEntry{
		{Path: "models/props/barrel.mdl", Size: 10},
		{Path: "sound/ambient/wind.wav", Size: 20},
		{Path: "readme.txt", Size: 5},
	}

	Build(root)

	require.Len(t, root.Files, 1, "the root-level entry stays in root.Files; the others move into subdirectories")
	require.Len(t, root.Subdirectories, 2)

	var models, sound *DirectoryEntry
	for _, d := range root.Subdirectories {
		switch d.Name {
		case "models":
			models = d
		case "sound":
			sound = d
		}
	}
	require.NotNil(t, models)
	require.NotNil(t, sound)

	require.Len(t, models.Subdirectories, 1)
	props := models.Subdirectories[0]
	assert.Equal(t, "props", props.Name)
	require.Len(t, props.Files, 1)
	assert.Equal(t, "barrel.mdl", props.Files[0].Name)
	assert.Same(t, models, props.Parent)
}

func TestBuildRootLevelFile(t *testing.T) {
	root := NewRoot("game.vpk")
	root.Files = []*FileEntry{{Path: "readme.txt", Size: 5}}

	Build(root)

	require.Len(t, root.Files, 1)
	assert.Equal(t, "readme.txt", root.Files[0].Name)
}

func TestBuildBackslashSeparator(t *testing.T) {
	root := NewRoot("game.vpk")
	root.Files = []*FileEntry{{Path: `maps\de_dust2.bsp`, Size: 100}}

	Build(root)

	require.Len(t, root.Subdirectories, 1)
	maps := root.Subdirectories[0]
	assert.Equal(t, "maps", maps.Name)
	require.Len(t, maps.Files, 1)
	assert.Equal(t, "de_dust2.bsp", maps.Files[0].Name)
}

func TestFullPathRoundTrip(t *testing.T) {
	root := NewRoot("game.vpk")
	root.Files = []*FileEntry{
		{Path: "a/b/c/file.dat", Size: 1},
	}
	Build(root)

	var got string
	WalkFiles(root, func(dir *DirectoryEntry, f *FileEntry) {
		got = FileFullPath(dir, f)
	})
	assert.Equal(t, "a/b/c/file.dat", got)
}

func TestAllFilesPreservesInsertionOrder(t *testing.T) {
	root := NewRoot("game.vpk")
	root.Files = []*FileEntry{
		{Path: "dir/b.txt"},
		{Path: "dir/a.txt"},
	}
	Build(root)

	files := AllFiles(root)
	require.Len(t, files, 2)
	assert.Equal(t, "b.txt", files[0].Name)
	assert.Equal(t, "a.txt", files[1].Name)
}

func TestBuildSharedPrefixReusesDirectory(t *testing.T) {
	root := NewRoot("game.vpk")
	root.Files = []*FileEntry{
		{Path: "a/one.txt"},
		{Path: "a/two.txt"},
	}
	Build(root)

	require.Len(t, root.Subdirectories, 1)
	a := root.Subdirectories[0]
	assert.Len(t, a.Files, 2)

	diff := cmp.Diff([]string{"one.txt", "two.txt"}, fileNames(a.Files), cmpopts.EquateEmpty())
	assert.Empty(t, diff)
}

func fileNames(files []*FileEntry) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
