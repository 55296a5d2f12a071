package annotation

import (
	"io"
	"strings"

	"github.com/jonwraymond/apidocs/model"
)

// FileResult holds the records extracted from one source file.
type FileResult struct {
	Path      string
	Functions []model.FunctionRecord
	Classes   []model.ClassRecord
}

// ExtractFile scans a doc-comment annotated source file. Contiguous "---"
// lines form a block; the first non-comment line ends it. Classes are read
// from every block, functions only from blocks followed by a declaration.
// Lines that match nothing are skipped, as are lines too long to read.
// On a read error the records found so far are returned with the error.
func ExtractFile(path string, r io.Reader) (FileResult, error) {
	res := FileResult{Path: path}
	var block []string

	flush := func() {
		if len(block) == 0 {
			return
		}
		for _, c := range ParseClasses(block) {
			c.File = path
			res.Classes = append(res.Classes, c)
		}
	}

	err := eachLine(r, func(lineNo int, raw string) {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "---") {
			block = append(block, strings.TrimSpace(line[3:]))
			return
		}
		flush()
		if fn, ok := ParseFunction(block, line); ok {
			fn.File = path
			fn.Line = lineNo
			res.Functions = append(res.Functions, fn)
		}
		block = nil
	})
	flush()
	return res, err
}
