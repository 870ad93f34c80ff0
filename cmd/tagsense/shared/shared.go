// Package shared holds the flags and output helpers every tagsense command
// uses.
package shared

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/workspace"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// WorkspaceFlags locate the project and its manifests.
type WorkspaceFlags struct {
	Root          string
	FileManifest  string
	StyleManifest string
	Smart         bool

	// Fs overrides the filesystem rooted at Root.
	Fs afero.Fs
}

func (f *WorkspaceFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Root, "root", ".", "the workspace directory")
	cmd.Flags().StringVar(&f.FileManifest, "manifest", "", "the file manifest, relative to the root (json, yaml or hcl)")
	cmd.Flags().StringVar(&f.StyleManifest, "style-manifest", "", "the style manifest, relative to the root (json or yaml)")
	cmd.Flags().BoolVar(&f.Smart, "smart", false, "group symclass completions by library and cluster")
}

// Open opens the workspace the flags describe.
func (f *WorkspaceFlags) Open(ctx context.Context) (*workspace.Workspace, error) {
	root, err := filepath.Abs(f.Root)
	if err != nil {
		return nil, errors.Errorf("resolving root %s: %w", f.Root, err)
	}

	fsys := f.Fs
	if fsys == nil {
		fsys = afero.NewBasePathFs(afero.NewOsFs(), root)
	}

	return workspace.Open(ctx, fsys, workspace.Options{
		FileManifest:  f.FileManifest,
		StyleManifest: f.StyleManifest,
		Root:          root,
		Smart:         f.Smart,
	})
}

// CaretFlags select a point in a document either by byte offset or by
// zero-based line and character.
type CaretFlags struct {
	Offset    int
	Line      int
	Character int
}

func (c *CaretFlags) Register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&c.Offset, "offset", -1, "byte offset of the caret")
	cmd.Flags().IntVar(&c.Line, "line", -1, "zero-based line of the caret")
	cmd.Flags().IntVar(&c.Character, "character", 0, "zero-based character of the caret")
}

// Resolve returns the byte offset in content.
func (c *CaretFlags) Resolve(content string) (int, error) {
	switch {
	case c.Line >= 0:
		return position.OffsetOf(content, position.Place{Line: c.Line, Character: c.Character}), nil
	case c.Offset >= 0:
		if c.Offset > len(content) {
			return 0, errors.Errorf("offset %d is past the end of the document (%d bytes)", c.Offset, len(content))
		}
		return c.Offset, nil
	default:
		return 0, errors.New("one of --offset or --line is required")
	}
}

// Write renders v in format. Text output is delegated to text.
func Write(out io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Errorf("encoding json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return errors.Errorf("encoding yaml: %w", err)
		}
	case FormatText:
		if text == nil {
			return errors.Errorf("text output is not supported here")
		}
		return text(out)
	default:
		return errors.Errorf("unknown format %q", format)
	}
	return nil
}

// RegisterFormat adds the --format flag.
func RegisterFormat(cmd *cobra.Command, target *string, extra ...string) {
	formats := append([]string{FormatText, FormatJSON, FormatYAML}, extra...)
	cmd.Flags().StringVar(target, "format", FormatText, "output format, one of "+strings.Join(formats, ", "))
}
