package fold

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/walteh/tagsense/cmd/tagsense/shared"
)

type Handler struct {
	workspace shared.WorkspaceFlags
	file      string
	format    string
}

func NewFoldCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "fold [file]",
		Short: "print the folding regions of a file",
	}

	me.workspace.Register(cmd)
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

	regions := ws.Fold(doc)

	return shared.Write(out, me.format, regions, func(w io.Writer) error {
		for _, r := range regions {
			fmt.Fprintf(w, "%d-%d %s\n", r.StartLine, r.EndLine, r.Kind)
		}
		return nil
	})
}
