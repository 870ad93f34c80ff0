package diagnostics

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/tagsense/cmd/tagsense/shared"
	"github.com/walteh/tagsense/pkg/diagnostic"
)

const FormatVSCode = "vscode"

type Handler struct {
	workspace shared.WorkspaceFlags
	patterns  []string
	format    string
	failOn    bool
}

type FileDiagnostics struct {
	Path        string                  `json:"path" yaml:"path"`
	Diagnostics *diagnostic.Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

func NewDiagnosticsCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "diagnostics [pattern...]",
		Short: "report problems in tag declarations",
	}

	me.workspace.Register(cmd)
	shared.RegisterFormat(cmd, &me.format, FormatVSCode)
	cmd.Flags().BoolVar(&me.failOn, "fail", false, "exit non-zero when any error is reported")

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

	docs, errs := ws.ScanAll(ctx, files)
	var merr *multierror.Error
	if errs != nil {
		merr = multierror.Append(merr, errs)
	}

	results := make([]FileDiagnostics, 0, len(docs))
	errorCount := 0
	for _, doc := range docs {
		diags, err := ws.Diagnose(ctx, doc)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		errorCount += len(diags.Errors)
		results = append(results, FileDiagnostics{Path: doc.URI, Diagnostics: diags})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	if me.format == FormatVSCode {
		err = me.writeVSCode(out, results)
	} else {
		err = shared.Write(out, me.format, results, func(w io.Writer) error {
			for _, r := range results {
				for _, d := range r.Diagnostics.All() {
					fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", r.Path, d.Range.Start.Line+1, d.Range.Start.Character+1, d.Severity, d.Message)
				}
			}
			return nil
		})
	}
	if err != nil {
		return err
	}

	if err := merr.ErrorOrNil(); err != nil {
		return errors.Errorf("diagnosing files: %w", err)
	}
	if me.failOn && errorCount > 0 {
		return errors.Errorf("%d errors reported", errorCount)
	}
	return nil
}

func (me *Handler) writeVSCode(out io.Writer, results []FileDiagnostics) error {
	for _, r := range results {
		data, err := diagnostic.NewVSCodeFormatter(r.Path).Format(r.Diagnostics)
		if err != nil {
			return errors.Errorf("formatting %s: %w", r.Path, err)
		}
		if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
			return errors.Errorf("writing diagnostics: %w", err)
		}
	}
	return nil
}
