package watch

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/tagsense/cmd/tagsense/shared"
	"github.com/walteh/tagsense/pkg/session"
	"github.com/walteh/tagsense/pkg/workspace"
)

type Handler struct {
	workspace shared.WorkspaceFlags
	patterns  []string
}

func NewWatchCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "watch [pattern...]",
		Short: "rescan files as they change and print their diagnostics",
	}

	me.workspace.Register(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.patterns = args
		return me.Run(cmd.Context(), cmd.OutOrStdout())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer) error {
	ws, err := me.workspace.Open(ctx)
	if err != nil {
		return err
	}

	patterns := me.patterns
	if len(patterns) == 0 {
		patterns = ws.File.WatchFiles
	}
	if len(patterns) == 0 {
		return errors.New("nothing to watch: pass patterns or set watchfiles in the manifest")
	}

	files, err := ws.Glob(ctx, patterns...)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range directories(files) {
		if err := watcher.Add(filepath.Join(ws.Root, filepath.FromSlash(dir))); err != nil {
			return errors.Errorf("watching %s: %w", dir, err)
		}
	}

	docs, scanErr := ws.ScanAll(ctx, files)
	if scanErr != nil {
		zerolog.Ctx(ctx).Warn().Err(scanErr).Msg("initial scan incomplete")
	}
	for _, doc := range docs {
		report(ctx, out, ws, doc)
	}

	zerolog.Ctx(ctx).Info().Int("files", len(files)).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			zerolog.Ctx(ctx).Error().Err(err).Msg("watcher error")

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			rel, ok := relative(ws.Root, ev.Name)
			if !ok || !Matches(patterns, rel) {
				continue
			}

			doc, err := ws.ScanFile(ctx, rel)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("path", rel).Msg("rescan failed")
				continue
			}
			report(ctx, out, ws, doc)
		}
	}
}

// Matches reports whether the slash-separated path p matches any pattern.
func Matches(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(path.Clean(pattern), p); err == nil && ok {
			return true
		}
	}
	return false
}

func relative(root, name string) (string, bool) {
	rel, err := filepath.Rel(root, name)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func directories(files []string) []string {
	seen := map[string]struct{}{}
	for _, f := range files {
		seen[path.Dir(f)] = struct{}{}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func report(ctx context.Context, out io.Writer, ws *workspace.Workspace, doc session.Document) {
	diags, err := ws.Diagnose(ctx, doc)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", doc.URI).Msg("diagnose failed")
		return
	}

	fmt.Fprintf(out, "%s (v%d): %d tags, %d errors, %d warnings\n",
		doc.URI, doc.Version, len(doc.Result.Tags), len(diags.Errors), len(diags.Warnings))
	for _, d := range diags.All() {
		fmt.Fprintf(out, "  %d:%d %s: %s\n", d.Range.Start.Line+1, d.Range.Start.Character+1, d.Severity, d.Message)
	}
}
