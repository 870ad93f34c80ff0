// Package summon expands a symclass into the markup snippet the compiler
// recorded for it.
package summon

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/walteh/tagsense/pkg/definition"
	"github.com/walteh/tagsense/pkg/manifest"
	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/scanner"
)

// Edit inserts Text at Offset. Place is the same point in line/character form.
type Edit struct {
	Offset int            `json:"offset" yaml:"offset"`
	Place  position.Place `json:"place" yaml:"place"`
	Text   string         `json:"text" yaml:"text"`
}

// Summon returns the insertion for the symclass named by selection. An empty
// selection falls back to the word at its start. The snippet lands on a new
// line right after the tag containing the selection.
func Summon(ctx context.Context, text string, selection position.Span, res *scanner.Result, index *manifest.Index) (Edit, bool) {
	if res == nil {
		return Edit{}, false
	}

	if selection.Len() == 0 {
		_, span, ok := definition.WordAt(text, selection.StartOffset)
		if !ok {
			return Edit{}, false
		}
		selection = span
	}

	var tag *scanner.TagRange
	for _, t := range res.Tags {
		if t.Span.ContainsSpan(selection) {
			tag = t
			break
		}
	}
	if tag == nil {
		return Edit{}, false
	}

	name := selection.Text(text)
	data, ok := index.Attachable(name)
	if !ok || data.Summon == "" {
		zerolog.Ctx(ctx).Debug().Str("symclass", name).Msg("nothing to summon")
		return Edit{}, false
	}

	return Edit{
		Offset: tag.Span.EndOffset,
		Place:  tag.Span.End,
		Text:   "\n" + data.Summon,
	}, true
}

// Apply returns text with the edit inserted.
func (e Edit) Apply(text string) string {
	offset := max(0, min(e.Offset, len(text)))
	return text[:offset] + e.Text + text[offset:]
}
