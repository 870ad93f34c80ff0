package definition

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/tagsense/cmd/tagsense/shared"
)

type Handler struct {
	workspace shared.WorkspaceFlags
	caret     shared.CaretFlags
	file      string
	format    string
}

func NewDefinitionCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "definition [file]",
		Short: "print where the symclass at the caret is declared",
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

	loc, ok := ws.Define(ctx, doc, offset)
	if !ok {
		return errors.Errorf("no definition at offset %d of %s", offset, me.file)
	}

	return shared.Write(out, me.format, loc, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s:%d:%d\n", loc.Path, loc.Range.Start.Line, loc.Range.Start.Character)
		return err
	})
}
