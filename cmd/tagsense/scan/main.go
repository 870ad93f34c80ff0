package scan

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/tagsense/cmd/tagsense/shared"
	"github.com/walteh/tagsense/pkg/scanner"
)

type Handler struct {
	workspace shared.WorkspaceFlags
	patterns  []string
	format    string
}

type FileResult struct {
	Path   string          `json:"path" yaml:"path"`
	Result *scanner.Result `json:"result" yaml:"result"`
}

func NewScanCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "scan [pattern...]",
		Short: "scan files for tags and print every classified track",
		Long:  "scan expands the doublestar patterns (or the manifest's watch patterns when none are given) and scans every match.",
	}

	me.workspace.Register(cmd)
	shared.RegisterFormat(cmd, &me.format)

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

	files, err := ws.Glob(ctx, me.patterns...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no files matched")
	}

	docs, scanErr := ws.ScanAll(ctx, files)

	results := make([]FileResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, FileResult{Path: doc.URI, Result: doc.Result})
	}

	zerolog.Ctx(ctx).Debug().Int("files", len(results)).Msg("scanned files")

	if err := shared.Write(out, me.format, results, func(w io.Writer) error {
		for _, r := range results {
			fmt.Fprintf(w, "%s: %d tags\n", r.Path, len(r.Result.Tags))
			for _, tr := range r.Result.Tracks() {
				fmt.Fprintf(w, "  %s %-12s %s=%s\n", tr.BlockSpan.Start, tr.Kind, tr.Attribute, tr.Value)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if scanErr != nil {
		return errors.Errorf("some files could not be scanned: %w", scanErr)
	}
	return nil
}
