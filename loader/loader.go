package loader

import (
	"context"
	"os"
	"path"

	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/jonwraymond/apidocs/annotation"
	"github.com/jonwraymond/apidocs/config"
	"github.com/jonwraymond/apidocs/corpus"
	"github.com/jonwraymond/apidocs/index"
	"github.com/jonwraymond/apidocs/model"
)

// Deprecated-name list entries that are alias syntax, not function names.
var deprecatedListSentinels = []string{"...", "nil"}

// Options configures Load.
type Options struct {
	// Searcher is handed to the index for KeywordSearch.
	Searcher index.Searcher
}

// loader carries state shared by the passes of a single Load.
type loader struct {
	cfg config.Config
	b   *index.Builder

	flavors    map[string]uint64
	deprecated map[string]struct{}
}

type pass struct {
	name string
	run  func(l *loader, ctx context.Context) (files, added int)
}

// passes run in precedence order.
var passes = []pass{
	{"side-tables", (*loader).sideTables},
	{"api", (*loader).apiPass},
	{"deprecated", (*loader).deprecatedPass},
	{"wiki", (*loader).wikiPass},
	{"widget", (*loader).widgetPass},
	{"framework", (*loader).frameworkPass},
	{"tables", (*loader).tablesPass},
	{"flavors", (*loader).flavorPass},
}

// Load resolves cfg and builds a fresh index from the corpus it names.
// The only error is a *config.ConfigurationError for an unusable root, or
// the context's error if ctx is cancelled between passes. Unreadable or
// missing optional inputs are logged and skipped.
func Load(ctx context.Context, cfg config.Config, opts Options) (*index.Index, error) {
	resolved, err := config.Resolve(cfg)
	if err != nil {
		return nil, err
	}

	l := &loader{
		cfg:        resolved,
		b:          index.NewBuilder(index.Options{Searcher: opts.Searcher}),
		flavors:    map[string]uint64{},
		deprecated: map[string]struct{}{},
	}
	l.b.SetCorpus(resolved.Root, l.corpusVersion(ctx))

	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("loading corpus: %w", err)
		}
		files, added := p.run(l, ctx)
		slogctx.Info(ctx, "pass complete", "pass", p.name, "files", files, "added", added)
	}

	idx := l.b.Build()
	s := idx.Stats()
	slogctx.Info(ctx, "index loaded",
		"root", s.Root,
		"version", s.Version,
		"functions", s.Functions,
		"deprecated", s.Deprecated,
		"widgets", s.Widgets,
		"enums", s.Enums,
		"events", s.Events,
	)
	return idx, nil
}

// eachFile extracts every source file under the layout directory rel.
// Files that cannot be opened are logged and skipped. A file that fails
// part way is logged and its records up to the failure are kept.
func (l *loader) eachFile(ctx context.Context, rel string, fn func(f corpus.File, res annotation.FileResult)) int {
	if rel == "" {
		return 0
	}
	dir := l.cfg.Path(rel)
	files := corpus.Walk(dir)
	if len(files) == 0 {
		slogctx.Debug(ctx, "no source files", "dir", dir)
	}
	for _, f := range files {
		res, err := extract(f.Path, path.Join(rel, f.Rel))
		if err != nil {
			if errors.Is(err, errOpen) {
				slogctx.Warn(ctx, "skipping unreadable file", "file", f.Path, "error", err)
				continue
			}
			slogctx.Warn(ctx, "file read incompletely", "file", f.Path, "error", err,
				"functions", len(res.Functions), "classes", len(res.Classes))
		}
		fn(f, res)
	}
	return len(files)
}

var errOpen = errors.Base("cannot open source file")

// extract returns the records read from abs even when reading fails part
// way through.
func extract(abs, rel string) (annotation.FileResult, error) {
	fh, err := os.Open(abs)
	if err != nil {
		return annotation.FileResult{}, errors.Errorf("%w %s: %v", errOpen, abs, err)
	}
	defer func() { _ = fh.Close() }()
	res, err := annotation.ExtractFile(rel, fh)
	if err != nil {
		return res, errors.Errorf("scanning %s: %w", abs, err)
	}
	return res, nil
}

func (l *loader) apiPass(ctx context.Context) (int, int) {
	added := 0
	files := l.eachFile(ctx, l.cfg.Layout.APIDir, func(_ corpus.File, res annotation.FileResult) {
		for _, fn := range res.Functions {
			fn.Source = model.SourceAPI
			l.b.Put(fn)
			added++
		}
		for _, c := range res.Classes {
			c.Source = model.SourceAPI
			l.b.SetClass(c)
		}
	})
	return files, added
}

// deprecatedPass always overwrites: every function is marked deprecated
// with the patch parsed from its file name.
func (l *loader) deprecatedPass(ctx context.Context) (int, int) {
	added := 0
	files := l.eachFile(ctx, l.cfg.Layout.DeprecatedDir, func(f corpus.File, res annotation.FileResult) {
		patch, _ := annotation.PatchVersion(path.Base(f.Rel))
		for _, fn := range res.Functions {
			fn.Deprecated = true
			fn.DeprecatedIn = patch
			fn.Source = model.SourceDeprecated
			l.b.Put(fn)
			added++
		}
	})
	return files, added
}

// wikiPass never overwrites. A function named in the deprecated list is
// flagged, matching on the short name, or the qualified name when the
// short name is empty.
func (l *loader) wikiPass(ctx context.Context) (int, int) {
	added := 0
	files := l.eachFile(ctx, l.cfg.Layout.WikiDir, func(_ corpus.File, res annotation.FileResult) {
		for _, fn := range res.Functions {
			key := fn.Name
			if key == "" {
				key = fn.FullName
			}
			if _, ok := l.deprecated[key]; ok {
				fn.Deprecated = true
			}
			fn.Source = model.SourceWiki
			if l.b.PutIfAbsent(fn) {
				added++
			}
		}
	})
	return files, added
}

// widgetPass overwrites and registers every method under its owner,
// whether or not the owner's class declaration was seen.
func (l *loader) widgetPass(ctx context.Context) (int, int) {
	added := 0
	files := l.eachFile(ctx, l.cfg.Layout.WidgetDir, func(_ corpus.File, res annotation.FileResult) {
		for _, c := range res.Classes {
			c.Source = model.SourceWidget
			l.b.SetClass(c)
		}
		for _, fn := range res.Functions {
			fn.Source = model.SourceWidget
			l.b.Put(fn)
			if fn.IsMethod {
				l.b.AddMethod(fn.Namespace, fn.FullName)
			}
			added++
		}
	})
	return files, added
}

func (l *loader) frameworkPass(ctx context.Context) (int, int) {
	files, added := 0, 0
	for _, dir := range l.cfg.Layout.FrameworkDirs {
		files += l.eachFile(ctx, dir, func(_ corpus.File, res annotation.FileResult) {
			for _, fn := range res.Functions {
				fn.Source = model.SourceFramework
				if l.b.PutIfAbsent(fn) {
					added++
				}
			}
		})
	}
	return files, added
}

// flavorPass tags each function by short name, then qualified name.
func (l *loader) flavorPass(_ context.Context) (int, int) {
	tagged := 0
	l.b.Each(func(fn *model.FunctionRecord) {
		mask, ok := l.flavors[fn.Name]
		if !ok {
			mask, ok = l.flavors[fn.FullName]
		}
		if !ok {
			return
		}
		fn.Flavors = model.FlavorsFromMask(mask)
		tagged++
	})
	return 0, tagged
}
