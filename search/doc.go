// Package search provides a BM25 ranking implementation of index.Searcher.
//
// It exists to keep the index package free of the bleve dependency while
// still offering relevance-ranked keyword search.
//
// # Usage
//
//	b := index.NewBuilder(index.Options{
//	    Searcher: search.NewBM25Searcher(search.BM25Config{}),
//	})
//
// # Configuration
//
// [BM25Config] controls field boosts and safety limits:
//
//	cfg := search.BM25Config{
//	    NameBoost:      3,    // short function name (default: 3)
//	    NamespaceBoost: 2,    // namespace or owning widget (default: 2)
//	    TextBoost:      1,    // full document text (default: 1)
//	    MaxDocs:        5000, // limit documents to index (0 = unlimited)
//	    MaxDocTextLen:  2000, // truncate long documents (0 = unlimited)
//	}
//
// # Thread Safety
//
// BM25Searcher is safe for concurrent use. The bleve index is cached by a
// fingerprint of the document slice and only rebuilt when it changes.
//
// # Behavior
//
// Empty queries return the first N documents. Non-empty queries are ranked
// by score, with ties broken by ID.
package search
