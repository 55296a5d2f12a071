package annotation

import (
	"bufio"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jonwraymond/apidocs/model"
)

var (
	enumOpenRe  = regexp.MustCompile(`^@enum\s+([A-Za-z_][\w.]*)`)
	enumEntryRe = regexp.MustCompile(`^([A-Za-z_]\w*)\s*=\s*(-?(?:0[xX][0-9a-fA-F]+|\d+))\s*,?`)
	eventRe     = regexp.MustCompile("^\\|\\s*\"([^\"]+)\"(?:\\s*#\\s*`([^`]*)`)?")
	listItemRe  = regexp.MustCompile(`^\|\s*"([^"]*)"`)
	flavorRe    = regexp.MustCompile(`\["([^"]+)"\]\s*[:=]\s*(0[xX][0-9a-fA-F]+|\d+)`)
	patchRe     = regexp.MustCompile(`Deprecated[_-]?(\d+)[._](\d+)[._](\d+)`)
)

// maxLineSize bounds a single corpus line. Generated files carry very long
// alias lines; a line past the bound is skipped, not fatal.
const maxLineSize = 4 * 1024 * 1024

// eachLine calls fn with every line of r and its 1-based number. Lines
// longer than maxLineSize are dropped but still counted, so later lines
// keep their numbers.
func eachLine(r io.Reader, fn func(n int, line string)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	var (
		buf     []byte
		n       int
		tooLong bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize {
				tooLong = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if isPrefix {
			continue
		}
		n++
		if !tooLong {
			fn(n, string(buf))
		}
		buf = buf[:0]
		tooLong = false
	}
}

// stripComment removes a leading "---" doc-comment marker if present.
func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "---") {
		line = strings.TrimSpace(line[3:])
	}
	return line
}

type enumState int

const (
	enumIdle enumState = iota
	enumAwaitOpen
	enumOpen
)

// ExtractEnums reads @enum blocks. The table must open on the first
// non-blank line after the @enum tag, otherwise the tag is dropped. A
// block is committed only when its closing brace is seen; a new @enum
// abandons an unclosed one.
func ExtractEnums(r io.Reader) ([]model.EnumTable, error) {
	var (
		tables  []model.EnumTable
		state   = enumIdle
		current model.EnumTable
	)
	err := eachLine(r, func(_ int, raw string) {
		line := stripComment(raw)
		if m := enumOpenRe.FindStringSubmatch(line); m != nil {
			current = model.EnumTable{Name: m[1]}
			state = enumAwaitOpen
			return
		}
		switch state {
		case enumAwaitOpen:
			if line == "" {
				return
			}
			if !strings.Contains(line, "{") {
				current = model.EnumTable{}
				state = enumIdle
				return
			}
			state = enumOpen
			if strings.Contains(line, "}") {
				tables = append(tables, current)
				state = enumIdle
			}
		case enumOpen:
			if strings.HasPrefix(line, "}") {
				tables = append(tables, current)
				state = enumIdle
				return
			}
			m := enumEntryRe.FindStringSubmatch(line)
			if m == nil {
				return
			}
			v, ok := parseInt(m[2])
			if !ok {
				return
			}
			current.Members = append(current.Members, model.EnumMember{Name: m[1], Value: v})
		}
	})
	return tables, err
}

// ExtractEvents reads `|"EVENT" # `payload`` alias lines regardless of
// the alias they belong to.
func ExtractEvents(r io.Reader) ([]model.EventRecord, error) {
	var events []model.EventRecord
	err := eachLine(r, func(_ int, line string) {
		if m := eventRe.FindStringSubmatch(stripComment(line)); m != nil {
			events = append(events, model.EventRecord{Name: m[1], Payload: m[2]})
		}
	})
	return events, err
}

// ExtractStringList collects `|"value"` lines in order, skipping any value
// listed in exclude.
func ExtractStringList(r io.Reader, exclude ...string) ([]string, error) {
	var out []string
	err := eachLine(r, func(_ int, line string) {
		m := listItemRe.FindStringSubmatch(stripComment(line))
		if m == nil || slices.Contains(exclude, m[1]) {
			return
		}
		out = append(out, m[1])
	})
	return out, err
}

// ExtractFlavorMasks reads `["Name"]: 0x7` entries into raw bitmasks.
func ExtractFlavorMasks(r io.Reader) (map[string]uint64, error) {
	out := make(map[string]uint64)
	err := eachLine(r, func(_ int, line string) {
		for _, m := range flavorRe.FindAllStringSubmatch(line, -1) {
			v, ok := parseInt(m[2])
			if !ok || v < 0 {
				continue
			}
			out[m[1]] = uint64(v)
		}
	})
	return out, err
}

// PatchVersion extracts "11.0.0" from a deprecated file name such as
// "Deprecated_11_0_0.lua".
func PatchVersion(fileName string) (string, bool) {
	m := patchRe.FindStringSubmatch(fileName)
	if m == nil {
		return "", false
	}
	return m[1] + "." + m[2] + "." + m[3], true
}

func parseInt(s string) (int64, bool) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
