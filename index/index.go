package index

import (
	"strings"

	"github.com/jonwraymond/apidocs/model"
)

// Result caps.
const (
	MaxLookupResults  = 25
	MaxSearchResults  = 50
	DefaultKeywordMax = 20
)

// MaxShortDescriptionLen bounds Summary.ShortDescription.
const MaxShortDescriptionLen = 120

// Widget is a class with the methods registered under it.
type Widget struct {
	Name    string
	Class   *model.ClassRecord
	Methods []model.FunctionRecord
}

// EnumMatch is the result of GetEnum. Exact is false when the table was
// found by a case-insensitive or partial name match.
type EnumMatch struct {
	Name  string
	Table model.EnumTable
	Exact bool
}

// Stats summarizes a loaded index.
type Stats struct {
	Functions          int
	Deprecated         int
	Namespaces         int
	Widgets            int
	WidgetsWithMethods int
	Enums              int
	Events             int
	CVars              int
	Version            string
	Root               string
}

type widget struct {
	class   *model.ClassRecord
	methods []string
}

// Index is the immutable, in-memory store built by a Builder.
//
// Every method is a read and safe for concurrent use once Build has
// returned. Not-found conditions are reported as empty results or false,
// never as errors.
type Index struct {
	functions map[string]*model.FunctionRecord
	order     []string
	lowerKeys map[string]string

	namespaces     map[string][]string
	namespaceOrder []string

	widgets     map[string]*widget
	widgetOrder []string

	enums     map[string]model.EnumTable
	enumOrder []string

	events     []model.EventRecord
	eventIndex map[string]int

	cvars []string

	version string
	root    string

	searcher   Searcher
	searchDocs []SearchDoc
	stats      Stats
}

func newIndex() *Index {
	return &Index{
		functions:  make(map[string]*model.FunctionRecord),
		lowerKeys:  make(map[string]string),
		namespaces: make(map[string][]string),
		widgets:    make(map[string]*widget),
		enums:      make(map[string]model.EnumTable),
		eventIndex: make(map[string]int),
	}
}

// Builder accumulates records during a load. It is not safe for concurrent
// use and must not be used after Build.
type Builder struct {
	idx *Index
}

// Options configures the index produced by a Builder.
type Options struct {
	// Searcher ranks KeywordSearch results. If nil, KeywordSearch falls
	// back to substring Search.
	Searcher Searcher
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts Options) *Builder {
	idx := newIndex()
	idx.searcher = opts.Searcher
	return &Builder{idx: idx}
}

// Has reports whether fullName is already indexed.
func (b *Builder) Has(fullName string) bool {
	_, ok := b.idx.functions[fullName]
	return ok
}

// Get returns the indexed record for fullName.
func (b *Builder) Get(fullName string) (model.FunctionRecord, bool) {
	fn, ok := b.idx.functions[fullName]
	if !ok {
		return model.FunctionRecord{}, false
	}
	return *fn, true
}

// Put indexes fn, replacing any record with the same FullName. A replaced
// record keeps its original position.
func (b *Builder) Put(fn model.FunctionRecord) {
	if fn.FullName == "" {
		return
	}
	if _, ok := b.idx.functions[fn.FullName]; !ok {
		b.idx.order = append(b.idx.order, fn.FullName)
	}
	rec := fn.Clone()
	b.idx.functions[fn.FullName] = &rec
}

// PutIfAbsent indexes fn only if its FullName is not present yet.
func (b *Builder) PutIfAbsent(fn model.FunctionRecord) bool {
	if fn.FullName == "" || b.Has(fn.FullName) {
		return false
	}
	b.Put(fn)
	return true
}

// SetClass records class info. Methods already registered for the class
// are kept.
func (b *Builder) SetClass(c model.ClassRecord) {
	if c.Name == "" {
		return
	}
	w := b.widget(c.Name)
	class := c
	w.class = &class
}

// AddMethod registers fullName as a method of owner, whether or not a
// class declaration for owner exists. Duplicates are ignored.
func (b *Builder) AddMethod(owner, fullName string) {
	if owner == "" || fullName == "" {
		return
	}
	w := b.widget(owner)
	for _, m := range w.methods {
		if m == fullName {
			return
		}
	}
	w.methods = append(w.methods, fullName)
}

func (b *Builder) widget(name string) *widget {
	w, ok := b.idx.widgets[name]
	if !ok {
		w = &widget{}
		b.idx.widgets[name] = w
		b.idx.widgetOrder = append(b.idx.widgetOrder, name)
	}
	return w
}

// AddEnums indexes enum tables. A later table with the same name replaces
// the earlier one in place.
func (b *Builder) AddEnums(tables ...model.EnumTable) {
	for _, t := range tables {
		if _, ok := b.idx.enums[t.Name]; !ok {
			b.idx.enumOrder = append(b.idx.enumOrder, t.Name)
		}
		b.idx.enums[t.Name] = t
	}
}

// AddEvents indexes events. The first record for a name wins.
func (b *Builder) AddEvents(events ...model.EventRecord) {
	for _, e := range events {
		key := strings.ToUpper(e.Name)
		if _, ok := b.idx.eventIndex[key]; ok {
			continue
		}
		b.idx.eventIndex[key] = len(b.idx.events)
		b.idx.events = append(b.idx.events, e)
	}
}

// AddCVars appends console variable names.
func (b *Builder) AddCVars(names ...string) {
	b.idx.cvars = append(b.idx.cvars, names...)
}

// SetCorpus records where the corpus came from and its version string.
func (b *Builder) SetCorpus(root, version string) {
	b.idx.root = root
	b.idx.version = version
}

// Each calls fn for every indexed function in insertion order. fn may
// modify the record in place.
func (b *Builder) Each(fn func(*model.FunctionRecord)) {
	for _, key := range b.idx.order {
		fn(b.idx.functions[key])
	}
}

// Build finalizes the index and derives the lookup tables.
func (b *Builder) Build() *Index {
	idx := b.idx
	b.idx = nil

	for _, key := range idx.order {
		fn := idx.functions[key]
		lower := strings.ToLower(key)
		if _, ok := idx.lowerKeys[lower]; !ok {
			idx.lowerKeys[lower] = key
		}
		if fn.IsMethod || fn.Namespace == "" {
			continue
		}
		if _, ok := idx.namespaces[fn.Namespace]; !ok {
			idx.namespaceOrder = append(idx.namespaceOrder, fn.Namespace)
		}
		idx.namespaces[fn.Namespace] = append(idx.namespaces[fn.Namespace], key)
	}

	idx.searchDocs = buildSearchDocs(idx)
	idx.stats = idx.computeStats()
	return idx
}

func (idx *Index) computeStats() Stats {
	s := Stats{
		Functions:  len(idx.order),
		Namespaces: len(idx.namespaces),
		Widgets:    len(idx.widgets),
		Enums:      len(idx.enums),
		Events:     len(idx.events),
		CVars:      len(idx.cvars),
		Version:    idx.version,
		Root:       idx.root,
	}
	for _, key := range idx.order {
		if idx.functions[key].Deprecated {
			s.Deprecated++
		}
	}
	for _, w := range idx.widgets {
		if len(w.methods) > 0 {
			s.WidgetsWithMethods++
		}
	}
	return s
}
