// Package index provides the in-memory store and query engine for API
// documentation records.
//
// An index is assembled once with a Builder and is read-only afterwards:
//
//	b := index.NewBuilder(index.Options{})
//	b.Put(model.FunctionRecord{FullName: "C_SpellBook.IsSpellKnown", ...})
//	b.SetClass(model.ClassRecord{Name: "Frame"})
//	b.AddMethod("Frame", "Frame:Show")
//	idx := b.Build()
//
// # Lookups
//
//   - LookupByName: exact, then case-insensitive, then partial (max 25)
//   - Search: substring over name and description (max 50)
//   - ListDeprecated, GetNamespace, ListNamespaces
//   - GetWidget, ListWidgets
//   - GetEnum, SearchEnums, GetEvent
//   - Stats
//
// Lookups never return errors for a missing name; they return an empty
// slice or false.
//
// # Pluggable Search
//
// KeywordSearch ranks functions with a Searcher supplied in Options. The
// search package provides a BM25 implementation:
//
//	b := index.NewBuilder(index.Options{Searcher: search.NewBM25Searcher(search.BM25Config{})})
//
// # Concurrency
//
// A built Index holds no locks; nothing writes to it after Build, so any
// number of goroutines may query it. A Builder is single-goroutine.
package index
