// Package decoration computes the inline highlights and hover text for every
// classified track of a scan.
package decoration

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/tagsense/pkg/cssdata"
	"github.com/walteh/tagsense/pkg/manifest"
	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/scanner"
)

type Style string

const (
	StyleAttribute        Style = "attribute"
	StyleValue            Style = "value"
	StyleComment          Style = "comment"
	StyleDeclarationValue Style = "declaration-value"
	StyleHashrule         Style = "hashrule"
	StyleSymclass         Style = "symclass"
	StyleProperty         Style = "property"
)

// Decoration is one highlighted range. Hover is markdown and may be empty.
type Decoration struct {
	Style Style          `json:"style" yaml:"style"`
	Range position.Range `json:"range" yaml:"range"`
	Hover string         `json:"hover,omitempty" yaml:"hover,omitempty"`
}

// Decorator holds everything decorations are resolved against.
type Decorator struct {
	File  *manifest.FileManifest
	Index *manifest.Index
	CSS   *cssdata.Catalog

	// Name prefixes the hover of declarations the index does not know yet.
	Name string

	// Path is the document path, shown as the declaration of merged hovers.
	Path string
}

func NewDecorator(file *manifest.FileManifest, index *manifest.Index, path string) *Decorator {
	if file == nil {
		file = &manifest.FileManifest{}
	}
	return &Decorator{
		File:  file,
		Index: index,
		CSS:   cssdata.ForEnvironment(file.Environment),
		Name:  "Tagsense",
		Path:  path,
	}
}

// Decorate returns the decorations of res in tag order. Variables of every
// symclass a tag references are merged into that tag's Variables, so res is
// modified; callers sharing a result should pass a Clone.
func (d *Decorator) Decorate(ctx context.Context, res *scanner.Result) []Decoration {
	out := []Decoration{}
	if res == nil {
		return out
	}

	for _, tag := range res.Tags {
		for _, tr := range tag.Cache.Comments {
			out = append(out,
				Decoration{Style: StyleAttribute, Range: tr.AttributeSpan.Range},
				Decoration{Style: StyleComment, Range: tr.ValueSpan.Range},
			)
		}

		for _, tr := range tag.Cache.Declarations {
			hover := fmt.Sprintf("%s Definition.", d.Name)
			if data, ok := d.Index.Attachable(tr.Attribute); ok {
				mergeVariables(tag, data.Variables)
				hover = markdownOf(tr.Attribute, data)
			}
			out = append(out,
				Decoration{Style: StyleAttribute, Range: tr.AttributeSpan.Range, Hover: hover},
				Decoration{Style: StyleDeclarationValue, Range: tr.ValueSpan.Range},
			)
		}

		for _, tr := range tag.Cache.Watched {
			var found []manifest.Metadata
			for _, frag := range tr.Fragments {
				if len(frag) < 2 {
					continue
				}
				if data, ok := d.Index.Attachable(frag[1:]); ok {
					found = append(found, data)
					mergeVariables(tag, data.Variables)
				}
			}
			hover, _ := manifest.MergeMetadata(tr.Attribute, d.Path, found)
			out = append(out,
				Decoration{Style: StyleAttribute, Range: tr.AttributeSpan.Range, Hover: hover},
				Decoration{Style: StyleValue, Range: tr.ValueSpan.Range},
			)
		}

		for _, frags := range [][]scanner.Track{tag.Cache.ValueFragments, tag.Cache.WatchFragments} {
			for _, tr := range frags {
				if deco, ok := d.valueFragment(tr); ok {
					out = append(out, deco)
				}
			}
		}

		for _, tr := range tag.Cache.Hashrules {
			if value, ok := d.File.Hashrules[tr.Value]; ok {
				out = append(out, Decoration{
					Style: StyleHashrule,
					Range: tr.ValueSpan.Range,
					Hover: fmt.Sprintf("Hashrule: `%s`", value),
				})
			}
		}
	}

	for _, tr := range res.Outside {
		if data, ok := d.Index.Attachable(tr.Value); ok {
			out = append(out, Decoration{Style: StyleSymclass, Range: tr.ValueSpan.Range, Hover: markdownOf(tr.Value, data)})
		}
	}

	zerolog.Ctx(ctx).Debug().Int("tags", len(res.Tags)).Int("decorations", len(out)).Msg("decorated document")

	return out
}

func (d *Decorator) valueFragment(tr scanner.Track) (Decoration, bool) {
	if tr.Value == "" {
		return Decoration{}, false
	}
	if name, ok := strings.CutSuffix(tr.Value, ":"); ok {
		prop, ok := d.CSS.Property(name)
		if !ok {
			return Decoration{}, false
		}
		return Decoration{Style: StyleProperty, Range: tr.ValueSpan.Range, Hover: prop.Description}, true
	}

	name := strings.TrimLeft(tr.Value[:1], "=~") + tr.Value[1:]
	data, ok := d.Index.Attachable(name)
	if !ok {
		return Decoration{}, false
	}
	return Decoration{Style: StyleSymclass, Range: tr.ValueSpan.Range, Hover: markdownOf(name, data)}, true
}

func markdownOf(name string, data manifest.Metadata) string {
	if data.Markdown != "" {
		return data.Markdown
	}
	return manifest.FormatMetadata(name, data, "")
}

func mergeVariables(tag *scanner.TagRange, vars map[string]string) {
	if tag.Variables == nil {
		tag.Variables = map[string]string{}
	}
	for k, v := range vars {
		tag.Variables[k] = v
	}
}

// ByStyle returns the decorations of one style, in order.
func ByStyle(decos []Decoration, style Style) []Decoration {
	var out []Decoration
	for _, d := range decos {
		if d.Style == style {
			out = append(out, d)
		}
	}
	return out
}
