package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func rels(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Rel
	}
	return out
}

func TestWalk_RecursiveSorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.lua", "")
	writeFile(t, root, "a/deep/nested/c.lua", "")
	writeFile(t, root, "a/x.lua", "")
	writeFile(t, root, "a/readme.md", "")
	writeFile(t, root, "UPPER.LUA", "")

	assert.Equal(t, []string{"UPPER.LUA", "a/deep/nested/c.lua", "a/x.lua", "b.lua"}, rels(Walk(root)))
}

func TestWalk_SkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/objects/x.lua", "")
	writeFile(t, root, ".hidden.lua", "")
	writeFile(t, root, "visible.lua", "")

	assert.Equal(t, []string{"visible.lua"}, rels(Walk(root)))
}

func TestWalk_HonorsIgnoreFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\n")
	writeFile(t, root, ".apidocsignore", "*_test.lua\n")
	writeFile(t, root, "generated/a.lua", "")
	writeFile(t, root, "keep.lua", "")
	writeFile(t, root, "skip_test.lua", "")

	assert.Equal(t, []string{"keep.lua"}, rels(Walk(root)))
}

func TestWalk_MissingRoot(t *testing.T) {
	assert.Empty(t, Walk(filepath.Join(t.TempDir(), "nope")))
}

func TestWalk_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "f.lua", "")
	assert.Empty(t, Walk(filepath.Join(root, "f.lua")))
}

func TestWalk_AbsolutePaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sub/a.lua", "")

	files := Walk(root)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "sub", "a.lua"), files[0].Path)
}
