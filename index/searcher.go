package index

import (
	"strings"

	"github.com/jonwraymond/apidocs/model"
)

// Summary is the lightweight view of a function handed out by searchers.
type Summary struct {
	ID               string
	Name             string
	Namespace        string
	ShortDescription string
	Deprecated       bool
}

// SearchDoc is the searchable form of one function.
type SearchDoc struct {
	ID      string
	DocText string
	Summary Summary
}

// Searcher ranks documents for a keyword query.
type Searcher interface {
	Search(query string, limit int, docs []SearchDoc) ([]Summary, error)
}

// KeywordSearch ranks functions for a free-text query with the configured
// Searcher. Without one it returns the substring Search results.
func (idx *Index) KeywordSearch(query string, limit int) ([]model.FunctionRecord, error) {
	if limit <= 0 {
		limit = DefaultKeywordMax
	}
	if idx.searcher == nil {
		return idx.search(query, limit), nil
	}
	summaries, err := idx.searcher.Search(query, limit, idx.searchDocs)
	if err != nil {
		return nil, err
	}
	out := make([]model.FunctionRecord, 0, len(summaries))
	for _, s := range summaries {
		if _, ok := idx.functions[s.ID]; ok {
			out = append(out, idx.record(s.ID))
		}
	}
	return out, nil
}

// SearchDocs returns the documents handed to the Searcher.
func (idx *Index) SearchDocs() []SearchDoc {
	out := make([]SearchDoc, len(idx.searchDocs))
	copy(out, idx.searchDocs)
	return out
}

func buildSearchDocs(idx *Index) []SearchDoc {
	docs := make([]SearchDoc, 0, len(idx.order))
	for _, key := range idx.order {
		fn := idx.functions[key]
		docs = append(docs, SearchDoc{
			ID:      key,
			DocText: buildDocText(fn),
			Summary: Summary{
				ID:               key,
				Name:             fn.Name,
				Namespace:        fn.Namespace,
				ShortDescription: truncate(fn.Description, MaxShortDescriptionLen),
				Deprecated:       fn.Deprecated,
			},
		})
	}
	return docs
}

func buildDocText(fn *model.FunctionRecord) string {
	parts := []string{fn.FullName, fn.Name, fn.Namespace, fn.Description}
	for _, p := range fn.Params {
		parts = append(parts, p.Name, p.Description)
	}
	for _, r := range fn.Returns {
		parts = append(parts, r.Name, r.Description)
	}
	return strings.ToLower(strings.Join(strings.Fields(strings.Join(parts, " ")), " "))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
