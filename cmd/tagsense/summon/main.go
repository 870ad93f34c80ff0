package summon

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/tagsense/cmd/tagsense/shared"
	"github.com/walteh/tagsense/pkg/diff"
)

type Handler struct {
	workspace shared.WorkspaceFlags
	caret     shared.CaretFlags
	file      string
	length    int
	write     bool
	showDiff  bool
	format    string
}

func NewSummonCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "summon [file]",
		Short: "insert the markup snippet of the symclass at the caret after its tag",
	}

	me.workspace.Register(cmd)
	me.caret.Register(cmd)
	shared.RegisterFormat(cmd, &me.format)
	cmd.Flags().IntVar(&me.length, "length", 0, "length in bytes of the selection starting at the caret")
	cmd.Flags().BoolVar(&me.write, "write", false, "write the edited file back instead of printing the edit")
	cmd.Flags().BoolVar(&me.showDiff, "diff", false, "print a line diff of the edit instead of the edited file")

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

	start, err := me.caret.Resolve(doc.Content)
	if err != nil {
		return err
	}

	edit, ok := ws.Summon(ctx, doc, start, start+me.length)
	if !ok {
		return errors.Errorf("nothing to summon at offset %d of %s", start, me.file)
	}

	if me.write {
		info, err := ws.Fs.Stat(me.file)
		if err != nil {
			return errors.Errorf("stat %s: %w", me.file, err)
		}
		if err := afero.WriteFile(ws.Fs, me.file, []byte(edit.Apply(doc.Content)), info.Mode()); err != nil {
			return errors.Errorf("writing %s: %w", me.file, err)
		}
		return nil
	}

	return shared.Write(out, me.format, edit, func(w io.Writer) error {
		if me.showDiff {
			_, err := io.WriteString(w, diff.Lines(doc.Content, edit.Apply(doc.Content)))
			return err
		}
		_, err := fmt.Fprintf(w, "%s\n", edit.Apply(doc.Content))
		return err
	})
}
