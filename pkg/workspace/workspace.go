// Package workspace ties manifests, the document store and the editor
// features together for one project directory.
package workspace

import (
	"context"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/tagsense/pkg/completion"
	"github.com/walteh/tagsense/pkg/completion/providers"
	"github.com/walteh/tagsense/pkg/decoration"
	"github.com/walteh/tagsense/pkg/definition"
	"github.com/walteh/tagsense/pkg/diagnostic"
	"github.com/walteh/tagsense/pkg/folding"
	"github.com/walteh/tagsense/pkg/manifest"
	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/session"
	"github.com/walteh/tagsense/pkg/summon"
)

// Options selects the manifests of a workspace. Paths are relative to the
// workspace filesystem; empty paths leave the manifest empty.
type Options struct {
	FileManifest  string
	StyleManifest string

	// Root is the directory declaration paths resolve against.
	Root string

	// Smart switches symclass completion to library/cluster grouping.
	Smart bool
}

type Workspace struct {
	Fs    afero.Fs
	Root  string
	File  *manifest.FileManifest
	Style *manifest.StyleManifest
	Index *manifest.Index
	Store *session.Store

	completion *completion.Engine
	resolver   *definition.Resolver
}

// Open loads the manifests named by opts from fsys.
func Open(ctx context.Context, fsys afero.Fs, opts Options) (*Workspace, error) {
	file := &manifest.FileManifest{}
	if opts.FileManifest != "" {
		loaded, err := manifest.LoadFileManifest(ctx, fsys, opts.FileManifest)
		if err != nil {
			return nil, errors.Errorf("opening workspace: %w", err)
		}
		file = loaded
	}

	style := &manifest.StyleManifest{}
	if opts.StyleManifest != "" {
		loaded, err := manifest.LoadStyleManifest(ctx, fsys, opts.StyleManifest)
		if err != nil {
			return nil, errors.Errorf("opening workspace: %w", err)
		}
		style = loaded
	}

	index, err := manifest.NewIndex(style)
	if err != nil {
		return nil, errors.Errorf("indexing symclasses: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Strs("attributes", file.Attributes).
		Int("attachables", len(index.Attachables)).
		Int("assignables", len(index.Assignables)).
		Msg("workspace opened")

	return &Workspace{
		Fs:         fsys,
		Root:       opts.Root,
		File:       file,
		Style:      style,
		Index:      index,
		Store:      session.NewStore(),
		completion: completion.NewEngine(file, index, opts.Smart),
		resolver:   definition.NewResolver(index, opts.Root),
	}, nil
}

// IsStylesheet reports whether p is scanned as a stylesheet rather than markup.
func IsStylesheet(p string) bool {
	return strings.EqualFold(path.Ext(p), ".css")
}

// Glob expands doublestar patterns against the workspace filesystem. With no
// patterns the manifest's watch patterns are used. Results are sorted and
// unique.
func (w *Workspace) Glob(ctx context.Context, patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = w.File.WatchFiles
	}

	fsys := afero.NewIOFS(w.Fs)
	seen := map[string]struct{}{}
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(path.Clean(pattern), "/")
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)

	zerolog.Ctx(ctx).Debug().Strs("patterns", patterns).Int("files", len(files)).Msg("expanded patterns")

	return files, nil
}

// ScanFile reads p and stores its scan as the next version of the document.
func (w *Workspace) ScanFile(ctx context.Context, p string) (session.Document, error) {
	data, err := afero.ReadFile(w.Fs, p)
	if err != nil {
		return session.Document{}, errors.Errorf("reading %s: %w", p, err)
	}
	return w.ScanText(ctx, p, string(data)), nil
}

// ScanText stores the scan of content as the next version of document p.
func (w *Workspace) ScanText(ctx context.Context, p string, content string) session.Document {
	var version int32 = 1
	if prev, ok := w.Store.Get(p); ok {
		version = prev.Version + 1
	}

	w.Store.Scan(ctx, p, version, content, w.File.Attributes)

	doc, _ := w.Store.Get(p)
	return doc
}

// ScanAll scans every path concurrently. Every file is attempted; the
// returned error collects each failure.
func (w *Workspace) ScanAll(ctx context.Context, paths []string) ([]session.Document, error) {
	var (
		mu   sync.Mutex
		errs *multierror.Error
		docs = make([]session.Document, len(paths))
		ok   = make([]bool, len(paths))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			doc, err := w.ScanFile(ctx, p)
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
				return nil
			}
			docs[i], ok[i] = doc, true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("scanning files: %w", err)
	}

	out := make([]session.Document, 0, len(paths))
	for i := range docs {
		if ok[i] {
			out = append(out, docs[i])
		}
	}

	return out, errs.ErrorOrNil()
}

// Decorate returns the decorations of a scanned document.
func (w *Workspace) Decorate(ctx context.Context, doc session.Document) []decoration.Decoration {
	return decoration.NewDecorator(w.File, w.Index, doc.URI).Decorate(ctx, doc.Result.Clone())
}

// Diagnose returns the scan diagnostics of doc plus the compiler's own
// diagnostics reported against it.
func (w *Workspace) Diagnose(ctx context.Context, doc session.Document) (*diagnostic.Diagnostics, error) {
	diags := diagnostic.FromManifest(w.Style, doc.URI)
	if IsStylesheet(doc.URI) {
		return diags, nil
	}

	found, err := diagnostic.NewDefaultGenerator(w.File, w.Index).Generate(ctx, doc.Result)
	if err != nil {
		return nil, errors.Errorf("diagnosing %s: %w", doc.URI, err)
	}
	diags.Merge(found)
	return diags, nil
}

// Fold returns the folding regions of doc.
func (w *Workspace) Fold(doc session.Document) []folding.Region {
	return folding.Ranges(doc.Result)
}

// Complete returns the completions at offset.
func (w *Workspace) Complete(ctx context.Context, doc session.Document, offset int) []providers.CompletionItem {
	if IsStylesheet(doc.URI) {
		return w.completion.CompleteStylesheet(ctx, doc.Content, offset)
	}
	return w.completion.Complete(ctx, doc.Content, offset, doc.Result)
}

// Define resolves the symclass at offset to its declaration.
func (w *Workspace) Define(ctx context.Context, doc session.Document, offset int) (manifest.Location, bool) {
	return w.resolver.Define(ctx, doc.Content, offset, doc.Result, IsStylesheet(doc.URI))
}

// Summon returns the snippet insertion for the selection [start, end).
func (w *Workspace) Summon(ctx context.Context, doc session.Document, start, end int) (summon.Edit, bool) {
	start = max(0, min(start, len(doc.Content)))
	end = max(start, min(end, len(doc.Content)))
	selection := position.NewSpan(position.PlaceOf(doc.Content, start), start, position.PlaceOf(doc.Content, end), end)
	return summon.Summon(ctx, doc.Content, selection, doc.Result, w.Index)
}
