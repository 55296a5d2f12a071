package index

import (
	"sort"
	"strings"

	"github.com/jonwraymond/apidocs/model"
)

func (idx *Index) record(key string) model.FunctionRecord {
	return idx.functions[key].Clone()
}

// LookupByName resolves a function name. An exact key match wins, then a
// case-insensitive key match. Otherwise every function whose short name
// equals name (ignoring case) or whose qualified name contains it is
// returned, up to MaxLookupResults. An empty name matches every function.
func (idx *Index) LookupByName(name string) []model.FunctionRecord {
	if _, ok := idx.functions[name]; ok {
		return []model.FunctionRecord{idx.record(name)}
	}
	lower := strings.ToLower(name)
	if key, ok := idx.lowerKeys[lower]; ok {
		return []model.FunctionRecord{idx.record(key)}
	}

	var out []model.FunctionRecord
	for _, key := range idx.order {
		fn := idx.functions[key]
		if strings.EqualFold(fn.Name, name) || strings.Contains(strings.ToLower(key), lower) {
			out = append(out, fn.Clone())
			if len(out) == MaxLookupResults {
				break
			}
		}
	}
	return out
}

// Search returns functions whose qualified name, short name or
// description contains query, ignoring case, up to MaxSearchResults.
func (idx *Index) Search(query string) []model.FunctionRecord {
	return idx.search(query, MaxSearchResults)
}

func (idx *Index) search(query string, limit int) []model.FunctionRecord {
	lower := strings.ToLower(query)
	var out []model.FunctionRecord
	for _, key := range idx.order {
		fn := idx.functions[key]
		haystack := strings.ToLower(fn.FullName + " " + fn.Name + " " + fn.Description)
		if !strings.Contains(haystack, lower) {
			continue
		}
		out = append(out, fn.Clone())
		if len(out) == limit {
			break
		}
	}
	return out
}

// ListDeprecated returns every deprecated function. A non-empty filter
// keeps only functions whose namespace, or qualified name when there is no
// namespace, contains filter ignoring case.
func (idx *Index) ListDeprecated(filter string) []model.FunctionRecord {
	lower := strings.ToLower(filter)
	var out []model.FunctionRecord
	for _, key := range idx.order {
		fn := idx.functions[key]
		if !fn.Deprecated {
			continue
		}
		if filter != "" {
			scope := fn.Namespace
			if scope == "" {
				scope = fn.FullName
			}
			if !strings.Contains(strings.ToLower(scope), lower) {
				continue
			}
		}
		out = append(out, fn.Clone())
	}
	return out
}

// GetNamespace returns the functions of a namespace, matched exactly and
// then ignoring case.
func (idx *Index) GetNamespace(name string) []model.FunctionRecord {
	keys, ok := idx.namespaces[name]
	if !ok {
		for _, ns := range idx.namespaceOrder {
			if strings.EqualFold(ns, name) {
				keys = idx.namespaces[ns]
				break
			}
		}
	}
	out := make([]model.FunctionRecord, 0, len(keys))
	for _, key := range keys {
		out = append(out, idx.record(key))
	}
	return out
}

// ListNamespaces returns all namespace names, sorted.
func (idx *Index) ListNamespaces() []string {
	out := make([]string, 0, len(idx.namespaces))
	for ns := range idx.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// GetWidget returns a class and its methods, matched exactly and then
// ignoring case.
func (idx *Index) GetWidget(name string) (Widget, bool) {
	key := name
	w, ok := idx.widgets[name]
	if !ok {
		for _, candidate := range idx.widgetOrder {
			if strings.EqualFold(candidate, name) {
				key, w, ok = candidate, idx.widgets[candidate], true
				break
			}
		}
	}
	if !ok {
		return Widget{}, false
	}

	out := Widget{Name: key}
	if w.class != nil {
		class := *w.class
		out.Class = &class
	}
	for _, m := range w.methods {
		if _, ok := idx.functions[m]; ok {
			out.Methods = append(out.Methods, idx.record(m))
		}
	}
	return out, true
}

// ListWidgets returns all class names, sorted.
func (idx *Index) ListWidgets() []string {
	out := make([]string, 0, len(idx.widgets))
	for name := range idx.widgets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GetEnum returns an enum table by exact name, or else the first table
// whose name equals or contains name ignoring case.
func (idx *Index) GetEnum(name string) (EnumMatch, bool) {
	if t, ok := idx.enums[name]; ok {
		return EnumMatch{Name: name, Table: t, Exact: true}, true
	}
	if name == "" {
		return EnumMatch{}, false
	}
	for _, key := range idx.enumOrder {
		if strings.EqualFold(key, name) {
			return EnumMatch{Name: key, Table: idx.enums[key]}, true
		}
	}
	lower := strings.ToLower(name)
	for _, key := range idx.enumOrder {
		if strings.Contains(strings.ToLower(key), lower) {
			return EnumMatch{Name: key, Table: idx.enums[key]}, true
		}
	}
	return EnumMatch{}, false
}

// SearchEnums returns every enum table whose name contains query ignoring
// case, keyed by name.
func (idx *Index) SearchEnums(query string) map[string]model.EnumTable {
	lower := strings.ToLower(query)
	out := make(map[string]model.EnumTable)
	for _, key := range idx.enumOrder {
		if strings.Contains(strings.ToLower(key), lower) {
			out[key] = idx.enums[key]
		}
	}
	return out
}

// GetEvent looks up an event by upper-cased name. An exact match returns
// that single event with exact set; otherwise every event whose name
// contains the query is returned. No match yields an empty slice.
func (idx *Index) GetEvent(name string) (events []model.EventRecord, exact bool) {
	upper := strings.ToUpper(name)
	if i, ok := idx.eventIndex[upper]; ok {
		return []model.EventRecord{idx.events[i]}, true
	}
	if upper == "" {
		return nil, false
	}
	for _, e := range idx.events {
		if strings.Contains(strings.ToUpper(e.Name), upper) {
			events = append(events, e)
		}
	}
	return events, false
}

// CVars returns the console variable names in corpus order.
func (idx *Index) CVars() []string {
	out := make([]string, len(idx.cvars))
	copy(out, idx.cvars)
	return out
}

// Stats returns counts describing the index.
func (idx *Index) Stats() Stats {
	return idx.stats
}

// Len returns the number of indexed functions.
func (idx *Index) Len() int {
	return len(idx.order)
}
