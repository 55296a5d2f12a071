package loader

import (
	"context"
	"encoding/json"
	"io"
	"os"

	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/jonwraymond/apidocs/annotation"
)

// readOptional opens the layout file rel and hands it to read. A missing
// or unreadable file is logged and reported as false; read keeps whatever
// it parsed before failing.
func (l *loader) readOptional(ctx context.Context, facet, rel string, read func(io.Reader) error) bool {
	if rel == "" {
		return false
	}
	p := l.cfg.Path(rel)
	err := func() error {
		fh, err := os.Open(p)
		if err != nil {
			return err
		}
		defer func() { _ = fh.Close() }()
		return read(fh)
	}()
	if err != nil {
		slogctx.Warn(ctx, "optional file unavailable", "facet", facet, "file", p, "error", err)
		return false
	}
	return true
}

// sideTables loads the flavor masks and deprecated-name list consulted
// by later passes.
func (l *loader) sideTables(ctx context.Context) (int, int) {
	files, added := 0, 0
	if l.readOptional(ctx, "flavors", l.cfg.Layout.FlavorFile, func(r io.Reader) error {
		masks, err := annotation.ExtractFlavorMasks(r)
		l.flavors = masks
		return err
	}) {
		files++
		added += len(l.flavors)
	}
	if l.readOptional(ctx, "deprecated-list", l.cfg.Layout.DeprecatedListFile, func(r io.Reader) error {
		names, err := annotation.ExtractStringList(r, deprecatedListSentinels...)
		for _, n := range names {
			l.deprecated[n] = struct{}{}
		}
		return err
	}) {
		files++
		added += len(l.deprecated)
	}
	return files, added
}

// tablesPass loads the enum, event and CVar tables.
func (l *loader) tablesPass(ctx context.Context) (int, int) {
	files, added := 0, 0
	if l.readOptional(ctx, "enums", l.cfg.Layout.EnumFile, func(r io.Reader) error {
		tables, err := annotation.ExtractEnums(r)
		l.b.AddEnums(tables...)
		added += len(tables)
		return err
	}) {
		files++
	}
	if l.readOptional(ctx, "events", l.cfg.Layout.EventFile, func(r io.Reader) error {
		events, err := annotation.ExtractEvents(r)
		l.b.AddEvents(events...)
		added += len(events)
		return err
	}) {
		files++
	}
	if l.readOptional(ctx, "cvars", l.cfg.Layout.CVarFile, func(r io.Reader) error {
		cvars, err := annotation.ExtractStringList(r)
		l.b.AddCVars(cvars...)
		added += len(cvars)
		return err
	}) {
		files++
	}
	return files, added
}

type metadata struct {
	Version string `json:"version"`
}

// corpusVersion reads the version string from the metadata file.
func (l *loader) corpusVersion(ctx context.Context) string {
	var meta metadata
	l.readOptional(ctx, "metadata", l.cfg.Layout.MetadataFile, func(r io.Reader) error {
		if err := json.NewDecoder(r).Decode(&meta); err != nil {
			return errors.Errorf("decoding metadata: %w", err)
		}
		return nil
	})
	return meta.Version
}
