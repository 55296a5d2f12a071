package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"gitlab.com/tozd/go/errors"

	"github.com/jonwraymond/apidocs/index"
)

// Default field boosts.
const (
	DefaultNameBoost      = 3
	DefaultNamespaceBoost = 2
	DefaultTextBoost      = 1
)

// Indexed field names.
const (
	fieldName      = "name"
	fieldNamespace = "namespace"
	fieldText      = "text"
)

// BM25Config tunes ranking and resource limits.
type BM25Config struct {
	NameBoost      float64
	NamespaceBoost float64
	TextBoost      float64

	// MaxDocs caps how many documents are indexed. Zero means no cap.
	MaxDocs int
	// MaxDocTextLen truncates each document's text. Zero means no cap.
	MaxDocTextLen int
}

func (c BM25Config) withDefaults() BM25Config {
	if c.NameBoost <= 0 {
		c.NameBoost = DefaultNameBoost
	}
	if c.NamespaceBoost <= 0 {
		c.NamespaceBoost = DefaultNamespaceBoost
	}
	if c.TextBoost <= 0 {
		c.TextBoost = DefaultTextBoost
	}
	return c
}

// BM25Searcher implements index.Searcher over an in-memory bleve index.
// The bleve index is rebuilt only when the document set changes.
type BM25Searcher struct {
	cfg BM25Config

	mu          sync.RWMutex
	bleveIdx    bleve.Index
	fingerprint string
	summaries   map[string]index.Summary
}

// NewBM25Searcher returns a searcher with cfg's zero fields defaulted.
func NewBM25Searcher(cfg BM25Config) *BM25Searcher {
	return &BM25Searcher{cfg: cfg.withDefaults()}
}

type bleveDoc struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Text      string `json:"text"`
}

// Search ranks docs for query. An empty query returns the first limit
// documents in order. Ties are broken by ID.
func (s *BM25Searcher) Search(q string, limit int, docs []index.SearchDoc) ([]index.Summary, error) {
	if limit <= 0 {
		return []index.Summary{}, nil
	}
	if s.cfg.MaxDocs > 0 && len(docs) > s.cfg.MaxDocs {
		docs = docs[:s.cfg.MaxDocs]
	}

	q = strings.TrimSpace(q)
	if q == "" {
		n := min(limit, len(docs))
		out := make([]index.Summary, 0, n)
		for _, d := range docs[:n] {
			out = append(out, d.Summary)
		}
		return out, nil
	}

	if err := s.ensureIndex(docs); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(s.buildQuery(q), len(docs), 0, false)
	res, err := s.bleveIdx.Search(req)
	if err != nil {
		return nil, errors.Errorf("bm25 search %q: %w", q, err)
	}

	hits := res.Hits
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	out := make([]index.Summary, 0, min(limit, len(hits)))
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		if sum, ok := s.summaries[h.ID]; ok {
			out = append(out, sum)
		}
	}
	return out, nil
}

func (s *BM25Searcher) buildQuery(q string) query.Query {
	lower := strings.ToLower(q)

	name := bleve.NewMatchQuery(lower)
	name.SetField(fieldName)
	name.SetBoost(s.cfg.NameBoost)

	ns := bleve.NewMatchQuery(lower)
	ns.SetField(fieldNamespace)
	ns.SetBoost(s.cfg.NamespaceBoost)

	text := bleve.NewMatchQuery(lower)
	text.SetField(fieldText)
	text.SetBoost(s.cfg.TextBoost)

	return bleve.NewDisjunctionQuery(name, ns, text)
}

func (s *BM25Searcher) ensureIndex(docs []index.SearchDoc) error {
	fp := computeFingerprint(docs)

	s.mu.RLock()
	fresh := s.bleveIdx != nil && s.fingerprint == fp
	s.mu.RUnlock()
	if fresh {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bleveIdx != nil && s.fingerprint == fp {
		return nil
	}

	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return errors.Errorf("create bm25 index: %w", err)
	}
	summaries := make(map[string]index.Summary, len(docs))
	batch := idx.NewBatch()
	for _, d := range docs {
		text := d.DocText
		if s.cfg.MaxDocTextLen > 0 && len(text) > s.cfg.MaxDocTextLen {
			text = text[:s.cfg.MaxDocTextLen]
		}
		doc := bleveDoc{
			Name:      strings.ToLower(d.Summary.Name),
			Namespace: strings.ToLower(d.Summary.Namespace),
			Text:      text,
		}
		if err := batch.Index(d.ID, doc); err != nil {
			_ = idx.Close()
			return errors.Errorf("index document %q: %w", d.ID, err)
		}
		summaries[d.ID] = d.Summary
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return errors.Errorf("commit bm25 batch: %w", err)
	}

	if s.bleveIdx != nil {
		_ = s.bleveIdx.Close()
	}
	s.bleveIdx = idx
	s.fingerprint = fp
	s.summaries = summaries
	return nil
}

func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()

	doc := bleve.NewDocumentMapping()
	for _, field := range []string{fieldName, fieldNamespace, fieldText} {
		fm := bleve.NewTextFieldMapping()
		fm.Store = false
		fm.IncludeTermVectors = false
		doc.AddFieldMappingsAt(field, fm)
	}
	im.DefaultMapping = doc
	return im
}

// Close releases the bleve index.
func (s *BM25Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bleveIdx == nil {
		return nil
	}
	err := s.bleveIdx.Close()
	s.bleveIdx = nil
	s.fingerprint = ""
	s.summaries = nil
	if err != nil {
		return errors.Errorf("close bm25 index: %w", err)
	}
	return nil
}
