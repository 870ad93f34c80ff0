package complete

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/walteh/tagsense/cmd/tagsense/shared"
)

type Handler struct {
	workspace shared.WorkspaceFlags
	caret     shared.CaretFlags
	file      string
	format    string
}

func NewCompleteCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "complete [file]",
		Short: "print the completions at a caret position",
	}

	me.workspace.Register(cmd)
	me.caret.Register(cmd)
	shared.RegisterFormat(cmd, &me.format)

	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		return me.Run(cmd.Context(), cmd.OutOrStdout())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer) error {
	ws, err := me.workspace.Open(ctx)
	if err != nil {
		return err
	}

	doc, err := ws.ScanFile(ctx, me.file)
	if err != nil {
		return err
	}

	offset, err := me.caret.Resolve(doc.Content)
	if err != nil {
		return err
	}

	items := ws.Complete(ctx, doc, offset)

	return shared.Write(out, me.format, items, func(w io.Writer) error {
		for _, it := range items {
			fmt.Fprintf(w, "%-10s %s\t%s\n", it.Kind, it.Label, it.InsertText)
		}
		return nil
	})
}
