package model

import (
	"slices"
	"strings"
)

// Separators used when building qualified names.
const (
	NamespaceSeparator = "."
	MethodSeparator    = ":"
)

// Source identifies the corpus pass that produced a record.
type Source string

const (
	SourceAPI        Source = "api"
	SourceDeprecated Source = "deprecated"
	SourceWiki       Source = "wiki"
	SourceWidget     Source = "widget"
	SourceFramework  Source = "framework"
)

// Flavor is a game release channel a function is available on.
type Flavor string

const (
	FlavorMainline Flavor = "mainline"
	FlavorVanilla  Flavor = "vanilla"
	FlavorMists    Flavor = "mists"
)

// flavorBits maps bit positions of a flavor bitmask to their tags.
var flavorBits = []Flavor{FlavorMainline, FlavorVanilla, FlavorMists}

// FlavorsFromMask decodes a flavor bitmask. Bits above the known
// channels are ignored.
func FlavorsFromMask(mask uint64) []Flavor {
	var out []Flavor
	for bit, flavor := range flavorBits {
		if mask&(1<<uint(bit)) != 0 {
			out = append(out, flavor)
		}
	}
	return out
}

// Param is one @param entry of a function.
type Param struct {
	Name        string `json:"name"`
	Optional    bool   `json:"optional,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Return is one @return entry of a function.
type Return struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// FunctionRecord is a documented API function or widget method.
//
// FullName is the primary key of the index. For methods it is joined
// with MethodSeparator so it never collides with a namespaced function.
type FunctionRecord struct {
	FullName  string `json:"fullName"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
	IsMethod  bool   `json:"isMethod,omitempty"`

	Params      []Param  `json:"params,omitempty"`
	Returns     []Return `json:"returns,omitempty"`
	Description string   `json:"description,omitempty"`
	DocURL      string   `json:"docUrl,omitempty"`

	Deprecated    bool     `json:"deprecated,omitempty"`
	ReplacedBy    string   `json:"replacedBy,omitempty"`
	ReplacedByURL string   `json:"replacedByUrl,omitempty"`
	DeprecatedIn  string   `json:"deprecatedIn,omitempty"`
	Flavors       []Flavor `json:"flavors,omitempty"`
	Source        Source   `json:"source"`
	File          string   `json:"file,omitempty"`
	Line          int      `json:"line,omitempty"`
}

// Clone returns a deep copy of the record.
func (f FunctionRecord) Clone() FunctionRecord {
	out := f
	out.Params = slices.Clone(f.Params)
	out.Returns = slices.Clone(f.Returns)
	out.Flavors = slices.Clone(f.Flavors)
	return out
}

// HasFlavor reports whether the function is tagged with flavor.
func (f FunctionRecord) HasFlavor(flavor Flavor) bool {
	return slices.Contains(f.Flavors, flavor)
}

// Field is one @field entry of a class.
type Field struct {
	Name        string `json:"name"`
	Optional    bool   `json:"optional,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ClassRecord is a widget or class declaration.
type ClassRecord struct {
	Name    string   `json:"name"`
	Parents []string `json:"parents,omitempty"`
	Fields  []Field  `json:"fields,omitempty"`
	DocURL  string   `json:"docUrl,omitempty"`
	Source  Source   `json:"source"`
	File    string   `json:"file,omitempty"`
}

// EnumMember is a single name/value pair of an enum table.
type EnumMember struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// EnumTable is a named enum with members in declaration order.
type EnumTable struct {
	Name    string       `json:"name"`
	Members []EnumMember `json:"members"`
}

// Value returns the value of the named member.
func (e EnumTable) Value(name string) (int64, bool) {
	for _, m := range e.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// Map returns the members as a plain name to value map.
func (e EnumTable) Map() map[string]int64 {
	out := make(map[string]int64, len(e.Members))
	for _, m := range e.Members {
		out[m.Name] = m.Value
	}
	return out
}

// EventRecord is a game event name with an optional payload description.
type EventRecord struct {
	Name    string `json:"name"`
	Payload string `json:"payload,omitempty"`
}

// HasPayload reports whether the event declared a payload.
func (e EventRecord) HasPayload() bool {
	return e.Payload != ""
}

// SplitQualified splits "Ns.Sub.Func" or "Owner:Method" into namespace
// and short name. method reports whether the method separator was used.
func SplitQualified(fullName string) (namespace, name string, method bool) {
	if i := strings.LastIndex(fullName, MethodSeparator); i >= 0 {
		return fullName[:i], fullName[i+1:], true
	}
	if i := strings.LastIndex(fullName, NamespaceSeparator); i >= 0 {
		return fullName[:i], fullName[i+1:], false
	}
	return "", fullName, false
}
