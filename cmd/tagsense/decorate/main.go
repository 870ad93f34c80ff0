package decorate

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/walteh/tagsense/cmd/tagsense/shared"
	"github.com/walteh/tagsense/pkg/decoration"
)

type Handler struct {
	workspace shared.WorkspaceFlags
	file      string
	style     string
	format    string
}

func NewDecorateCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "decorate [file]",
		Short: "print the highlights and hover text of a file",
	}

	me.workspace.Register(cmd)
	shared.RegisterFormat(cmd, &me.format)
	cmd.Flags().StringVar(&me.style, "style", "", "only print decorations of this style")

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

	decos := ws.Decorate(ctx, doc)
	if me.style != "" {
		decos = decoration.ByStyle(decos, decoration.Style(me.style))
	}

	return shared.Write(out, me.format, decos, func(w io.Writer) error {
		for _, d := range decos {
			fmt.Fprintf(w, "%s %s\n", d.Range, d.Style)
			if d.Hover != "" {
				fmt.Fprintf(w, "%s\n\n", d.Hover)
			}
		}
		return nil
	})
}
