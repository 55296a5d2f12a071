package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jonwraymond/apidocs/index"
	"github.com/jonwraymond/apidocs/model"
)

// Detail selects how much of a record is rendered.
type Detail int

const (
	// DetailSummary renders one line per record.
	DetailSummary Detail = iota
	// DetailFull renders every field.
	DetailFull
)

// ParseDetail maps "summary" and "full" to a Detail. Anything else is
// DetailSummary.
func ParseDetail(s string) Detail {
	if strings.EqualFold(strings.TrimSpace(s), "full") {
		return DetailFull
	}
	return DetailSummary
}

// NoMatch is the text returned when a query finds nothing.
func NoMatch(kind, query string) string {
	if query == "" {
		return fmt.Sprintf("No %s found.", kind)
	}
	return fmt.Sprintf("No %s found matching %q.", kind, query)
}

// Signature renders "Name(a, b?)".
func Signature(fn model.FunctionRecord) string {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		name := p.Name
		if p.Optional {
			name += "?"
		}
		params = append(params, name)
	}
	return fn.FullName + "(" + strings.Join(params, ", ") + ")"
}

// Function renders one function at the requested detail.
func Function(fn model.FunctionRecord, detail Detail) string {
	if detail == DetailSummary {
		return summaryLine(fn)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", Signature(fn))
	if fn.Deprecated {
		b.WriteString("\nDEPRECATED")
		if fn.DeprecatedIn != "" {
			fmt.Fprintf(&b, " in %s", fn.DeprecatedIn)
		}
		if fn.ReplacedBy != "" {
			fmt.Fprintf(&b, ". Use %s instead", fn.ReplacedBy)
			if fn.ReplacedByURL != "" {
				fmt.Fprintf(&b, " (%s)", fn.ReplacedByURL)
			}
		}
		b.WriteString(".\n")
	}
	if fn.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", fn.Description)
	}
	if len(fn.Params) > 0 {
		b.WriteString("\nParameters:\n")
		for _, p := range fn.Params {
			name := p.Name
			if p.Optional {
				name += "?"
			}
			writeItem(&b, name+": "+p.Type, p.Description)
		}
	}
	if len(fn.Returns) > 0 {
		b.WriteString("\nReturns:\n")
		for _, r := range fn.Returns {
			head := r.Type
			if r.Name != "" {
				head += " " + r.Name
			}
			writeItem(&b, head, r.Description)
		}
	}

	b.WriteString("\n")
	if len(fn.Flavors) > 0 {
		fmt.Fprintf(&b, "Flavors: %s\n", joinFlavors(fn.Flavors))
	}
	if fn.DocURL != "" {
		fmt.Fprintf(&b, "Docs: %s\n", fn.DocURL)
	}
	fmt.Fprintf(&b, "Source: %s", fn.Source)
	if fn.File != "" {
		fmt.Fprintf(&b, " (%s:%d)", fn.File, fn.Line)
	}
	b.WriteString("\n")
	return b.String()
}

func summaryLine(fn model.FunctionRecord) string {
	line := "- " + Signature(fn)
	if fn.Deprecated {
		line += " [deprecated]"
	}
	if fn.Description != "" {
		line += ": " + shorten(fn.Description, index.MaxShortDescriptionLen)
	}
	return line
}

func writeItem(b *strings.Builder, head, desc string) {
	b.WriteString("  - " + head)
	if desc != "" {
		b.WriteString(" - " + desc)
	}
	b.WriteString("\n")
}

func joinFlavors(flavors []model.Flavor) string {
	parts := make([]string, len(flavors))
	for i, f := range flavors {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-3])) + "..."
}

// Functions renders a list under a count heading. A single result is
// rendered in full.
func Functions(fns []model.FunctionRecord, detail Detail) string {
	if len(fns) == 1 {
		return Function(fns[0], DetailFull)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d functions:\n", len(fns))
	for _, fn := range fns {
		if detail == DetailFull {
			b.WriteString("\n" + Function(fn, DetailFull))
			continue
		}
		b.WriteString(summaryLine(fn) + "\n")
	}
	return b.String()
}

// Names renders a titled, counted list of names.
func Names(title string, names []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n", title, len(names))
	for _, n := range names {
		b.WriteString("- " + n + "\n")
	}
	return b.String()
}

// Widget renders a class with its fields and methods.
func Widget(w index.Widget) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", w.Name)
	if c := w.Class; c != nil {
		if len(c.Parents) > 0 {
			fmt.Fprintf(&b, "\nInherits: %s\n", strings.Join(c.Parents, ", "))
		}
		if len(c.Fields) > 0 {
			b.WriteString("\nFields:\n")
			for _, f := range c.Fields {
				name := f.Name
				if f.Optional {
					name += "?"
				}
				writeItem(&b, name+": "+f.Type, f.Description)
			}
		}
		if c.DocURL != "" {
			fmt.Fprintf(&b, "\nDocs: %s\n", c.DocURL)
		}
	}
	fmt.Fprintf(&b, "\nMethods (%d):\n", len(w.Methods))
	for _, m := range w.Methods {
		b.WriteString(summaryLine(m) + "\n")
	}
	return b.String()
}

// Enum renders one enum table under its resolved name.
func Enum(m index.EnumMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", m.Name)
	for _, mem := range m.Table.Members {
		fmt.Fprintf(&b, "  %s = %d\n", mem.Name, mem.Value)
	}
	return b.String()
}

// Enums renders several enum tables sorted by name.
func Enums(tables map[string]model.EnumTable) string {
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d enums:\n", len(names))
	for _, n := range names {
		b.WriteString("\n" + Enum(index.EnumMatch{Name: n, Table: tables[n]}))
	}
	return b.String()
}

// Events renders event matches. An exact match includes its payload.
func Events(events []model.EventRecord, exact bool) string {
	var b strings.Builder
	if !exact {
		fmt.Fprintf(&b, "Found %d events:\n", len(events))
	}
	for _, e := range events {
		b.WriteString("- " + e.Name)
		if e.HasPayload() {
			b.WriteString(": " + e.Payload)
		} else if exact {
			b.WriteString(": (no payload)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Stats renders index counts.
func Stats(s index.Stats) string {
	var b strings.Builder
	b.WriteString("API index\n")
	if s.Version != "" {
		fmt.Fprintf(&b, "  version:     %s\n", s.Version)
	}
	if s.Root != "" {
		fmt.Fprintf(&b, "  root:        %s\n", s.Root)
	}
	fmt.Fprintf(&b, "  functions:   %s (%s deprecated)\n", count(s.Functions), count(s.Deprecated))
	fmt.Fprintf(&b, "  namespaces:  %s\n", count(s.Namespaces))
	fmt.Fprintf(&b, "  widgets:     %s (%s with methods)\n", count(s.Widgets), count(s.WidgetsWithMethods))
	fmt.Fprintf(&b, "  enums:       %s\n", count(s.Enums))
	fmt.Fprintf(&b, "  events:      %s\n", count(s.Events))
	fmt.Fprintf(&b, "  cvars:       %s\n", count(s.CVars))
	return b.String()
}

func count(n int) string {
	return humanize.Comma(int64(n))
}
