package annotation

import (
	"regexp"
	"strings"

	"github.com/jonwraymond/apidocs/model"
)

// LineKind classifies a single annotation line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineDeprecated
	LineDeprecatedBy
	LineDocLink
	LineParam
	LineReturn
	LineIgnored
	LineText
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineDeprecated:
		return "deprecated"
	case LineDeprecatedBy:
		return "deprecated-by"
	case LineDocLink:
		return "doc-link"
	case LineParam:
		return "param"
	case LineReturn:
		return "return"
	case LineIgnored:
		return "ignored"
	case LineText:
		return "text"
	default:
		return "unknown"
	}
}

// Line is the classified form of one annotation line. Only the fields
// relevant to Kind are set.
type Line struct {
	Kind   LineKind
	Name   string
	URL    string
	Param  model.Param
	Return model.Return
	Text   string
}

var (
	deprecatedRe   = regexp.MustCompile(`^@deprecated(?:\s.*)?$`)
	deprecatedByRe = regexp.MustCompile("(?i)^deprecated by\\s+`?\\[([^\\]]+)\\]\\(([^)\\s]+)\\)")
	docLinkRe      = regexp.MustCompile("^`?\\[Documentation\\]\\(([^)\\s]+)\\)")
	paramRe        = regexp.MustCompile(`^@param\s+(\S+)\s+(.+)$`)
	returnRe       = regexp.MustCompile(`^@return\s+(.+)$`)
	identRe        = regexp.MustCompile(`^(?:[A-Za-z_]\w*|\.\.\.)$`)
)

// rule pairs a line pattern with the handler that builds its Line.
// Rules are tried in order and the first match wins.
type rule struct {
	kind  LineKind
	re    *regexp.Regexp
	build func(m []string) Line
}

var blockRules = []rule{
	{LineDeprecated, deprecatedRe, func([]string) Line {
		return Line{Kind: LineDeprecated}
	}},
	{LineDeprecatedBy, deprecatedByRe, func(m []string) Line {
		return Line{Kind: LineDeprecatedBy, Name: m[1], URL: m[2]}
	}},
	{LineDocLink, docLinkRe, func(m []string) Line {
		return Line{Kind: LineDocLink, URL: m[1]}
	}},
	{LineParam, paramRe, func(m []string) Line {
		name, optional := splitOptional(m[1])
		typ, rest := splitTypeToken(m[2])
		return Line{Kind: LineParam, Param: model.Param{
			Name:        name,
			Optional:    optional,
			Type:        typ,
			Description: trimDescription(rest),
		}}
	}},
	{LineReturn, returnRe, func(m []string) Line {
		typ, rest := splitTypeToken(m[1])
		ret := model.Return{Type: typ}
		ret.Name, ret.Description = splitReturnName(rest)
		return Line{Kind: LineReturn, Return: ret}
	}},
}

// ClassifyLine classifies one annotation line with the comment marker
// already stripped.
func ClassifyLine(line string) Line {
	line = strings.TrimSpace(line)
	if line == "" {
		return Line{Kind: LineBlank}
	}
	for _, r := range blockRules {
		if m := r.re.FindStringSubmatch(line); m != nil {
			return r.build(m)
		}
	}
	if line[0] == '@' || line[0] == '#' || strings.Trim(line, "-") == "" {
		return Line{Kind: LineIgnored}
	}
	return Line{Kind: LineText, Text: line}
}

// Annotations is everything a block contributes to a function record.
type Annotations struct {
	Deprecated    bool
	ReplacedBy    string
	ReplacedByURL string
	DocURL        string
	Params        []model.Param
	Returns       []model.Return
	Description   string
}

// ParseBlock folds the lines of one doc-comment block. Repeated doc or
// deprecation links overwrite earlier ones.
func ParseBlock(block []string) Annotations {
	var (
		out  Annotations
		text []string
	)
	for _, raw := range block {
		l := ClassifyLine(raw)
		switch l.Kind {
		case LineDeprecated:
			out.Deprecated = true
		case LineDeprecatedBy:
			out.ReplacedBy = l.Name
			out.ReplacedByURL = l.URL
		case LineDocLink:
			out.DocURL = l.URL
		case LineParam:
			out.Params = append(out.Params, l.Param)
		case LineReturn:
			out.Returns = append(out.Returns, l.Return)
		case LineText:
			text = append(text, l.Text)
		}
	}
	out.Description = strings.Join(text, " ")
	return out
}

func splitOptional(name string) (string, bool) {
	if strings.HasSuffix(name, "?") {
		return strings.TrimSuffix(name, "?"), true
	}
	return name, false
}

// splitTypeToken reads one type expression from the front of s. Spaces
// inside brackets, after a ':' ',' or '|', or before a '|' do not end it.
func splitTypeToken(s string) (typ, rest string) {
	s = strings.TrimSpace(s)
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '<', '(', '{', '[':
			depth++
		case '>', ')', '}', ']':
			if depth > 0 {
				depth--
			}
		case ' ', '\t':
			if depth > 0 {
				continue
			}
			prev := strings.TrimRight(s[:i], " \t")
			if strings.HasSuffix(prev, ":") || strings.HasSuffix(prev, ",") || strings.HasSuffix(prev, "|") {
				continue
			}
			next := strings.TrimLeft(s[i:], " \t")
			if strings.HasPrefix(next, "|") {
				continue
			}
			return strings.TrimSpace(s[:i]), next
		}
	}
	return s, ""
}

func splitReturnName(rest string) (name, desc string) {
	rest = strings.TrimSpace(rest)
	if rest == "" || strings.HasPrefix(rest, "#") {
		return "", trimDescription(rest)
	}
	word, tail, _ := strings.Cut(rest, " ")
	if identRe.MatchString(word) {
		return word, trimDescription(tail)
	}
	return "", trimDescription(rest)
}

func trimDescription(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	return strings.TrimSpace(s)
}
