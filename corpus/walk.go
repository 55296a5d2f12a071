package corpus

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// SourceExt is the extension of annotation source files.
const SourceExt = ".lua"

// ignoreFiles are read from the walk root, in order, when present.
var ignoreFiles = []string{".gitignore", ".apidocsignore"}

// File is a discovered source file.
type File struct {
	Path string // absolute path
	Rel  string // relative to the walk root, slash separated
}

// Walk returns every source file under root, at any depth, sorted by
// relative path. Hidden entries and paths matched by an ignore file at
// root are skipped. A missing or unreadable root yields no files.
func Walk(root string) []File {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}
	gi := loadIgnore(root)

	var files []File
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), SourceExt) {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		files = append(files, File{Path: path, Rel: rel})
		return nil
	})

	sort.Slice(files, func(i, j int) bool {
		return files[i].Rel < files[j].Rel
	})
	return files
}

func loadIgnore(root string) *ignore.GitIgnore {
	var patterns []string
	for _, name := range ignoreFiles {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		patterns = append(patterns, strings.Split(string(data), "\n")...)
	}
	if len(patterns) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(patterns...)
}
