package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Format is a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the encoding from the file extension. Anything unknown is
// treated as JSON, which is what the compiler writes.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl":
		return FormatHCL
	default:
		return FormatJSON
	}
}

// Decode reads data in the given format into v. Unknown YAML fields are
// rejected. HCL is decoded through gohcl tags, with the manifest's directory
// available to expressions as manifest_dir.
func Decode(data []byte, path string, format Format, v any) error {
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(v); err != nil {
			return errors.Errorf("parsing YAML: %w", err)
		}
	case FormatHCL:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return errors.Errorf("parsing HCL: %s", diags.Error())
		}

		ctx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"manifest_dir": cty.StringVal(filepath.Dir(path)),
			},
		}

		if diags := gohcl.DecodeBody(file.Body, ctx, v); diags.HasErrors() {
			return errors.Errorf("decoding HCL: %s", diags.Error())
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return errors.Errorf("parsing JSON: %w", err)
		}
	}
	return nil
}

// Load reads path from fsys into v.
func Load(ctx context.Context, fsys afero.Fs, path string, v any) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return errors.Errorf("reading manifest: %w", err)
	}

	format := FormatOf(path)
	zerolog.Ctx(ctx).Debug().Str("path", path).Str("format", string(format)).Int("bytes", len(data)).Msg("loading manifest")

	if err := Decode(data, path, format, v); err != nil {
		return errors.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoadFileManifest loads and validates a file manifest.
func LoadFileManifest(ctx context.Context, fsys afero.Fs, path string) (*FileManifest, error) {
	var m FileManifest
	if err := Load(ctx, fsys, path, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}
	return &m, nil
}

// LoadStyleManifest loads and validates a style manifest. Skeletons are free
// form, so only JSON and YAML are accepted.
func LoadStyleManifest(ctx context.Context, fsys afero.Fs, path string) (*StyleManifest, error) {
	if FormatOf(path) == FormatHCL {
		return nil, errors.Errorf("style manifest %s: HCL is not supported", path)
	}

	var m StyleManifest
	if err := Load(ctx, fsys, path, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}
	return &m, nil
}
