package annotation

import (
	"regexp"
	"strings"

	"github.com/jonwraymond/apidocs/model"
)

var (
	methodDeclRe   = regexp.MustCompile(`^function\s+([A-Za-z_][\w.]*):([A-Za-z_]\w*)\s*\(`)
	functionDeclRe = regexp.MustCompile(`^function\s+([A-Za-z_][\w.]*)\s*\(`)

	classRe = regexp.MustCompile(`^@class\s+(?:\(\w+\)\s*)?([A-Za-z_][\w.]*)\s*(?::\s*(.*))?$`)
	fieldRe = regexp.MustCompile(`^@field\s+(?:(?:public|private|protected|package)\s+)?(\S+)\s+(.+)$`)
)

// Declaration is the identity read from a function declaration line.
type Declaration struct {
	FullName  string
	Namespace string
	Name      string
	IsMethod  bool
}

// ParseDeclaration recognizes "function Ns.Name(...)" and
// "function Owner:Method(...)". Any other line yields false.
func ParseDeclaration(line string) (Declaration, bool) {
	line = strings.TrimSpace(line)
	if m := methodDeclRe.FindStringSubmatch(line); m != nil {
		return Declaration{
			FullName:  m[1] + model.MethodSeparator + m[2],
			Namespace: m[1],
			Name:      m[2],
			IsMethod:  true,
		}, true
	}
	if m := functionDeclRe.FindStringSubmatch(line); m != nil {
		ns, name, _ := model.SplitQualified(m[1])
		return Declaration{
			FullName:  m[1],
			Namespace: ns,
			Name:      name,
		}, true
	}
	return Declaration{}, false
}

// ParseFunction builds a function record from a doc-comment block and the
// declaration line that follows it. Only identity comes from the
// declaration; parameters, returns and text come from the block.
func ParseFunction(block []string, declLine string) (model.FunctionRecord, bool) {
	decl, ok := ParseDeclaration(declLine)
	if !ok {
		return model.FunctionRecord{}, false
	}
	ann := ParseBlock(block)
	return model.FunctionRecord{
		FullName:      decl.FullName,
		Namespace:     decl.Namespace,
		Name:          decl.Name,
		IsMethod:      decl.IsMethod,
		Params:        ann.Params,
		Returns:       ann.Returns,
		Description:   ann.Description,
		DocURL:        ann.DocURL,
		Deprecated:    ann.Deprecated,
		ReplacedBy:    ann.ReplacedBy,
		ReplacedByURL: ann.ReplacedByURL,
	}, true
}

// ParseClasses returns every @class declared in block. Fields and a
// documentation link attach to the most recent @class above them.
func ParseClasses(block []string) []model.ClassRecord {
	var (
		classes []model.ClassRecord
		current = -1
	)
	for _, raw := range block {
		line := strings.TrimSpace(raw)
		if m := classRe.FindStringSubmatch(line); m != nil {
			classes = append(classes, model.ClassRecord{
				Name:    m[1],
				Parents: splitParents(m[2]),
			})
			current = len(classes) - 1
			continue
		}
		if current < 0 {
			continue
		}
		if m := fieldRe.FindStringSubmatch(line); m != nil {
			name, optional := splitOptional(m[1])
			typ, rest := splitTypeToken(m[2])
			classes[current].Fields = append(classes[current].Fields, model.Field{
				Name:        name,
				Optional:    optional,
				Type:        typ,
				Description: trimDescription(rest),
			})
			continue
		}
		if m := docLinkRe.FindStringSubmatch(line); m != nil {
			classes[current].DocURL = m[1]
		}
	}
	return classes
}

func splitParents(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var parents []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parents = append(parents, p)
		}
	}
	return parents
}
