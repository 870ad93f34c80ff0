// Package definition resolves the symclass under the caret to the place the
// compiler declared it.
package definition

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/walteh/tagsense/pkg/manifest"
	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/scanner"
)

var wordPattern = regexp.MustCompile(`[\w/$_-]+`)

// WordAt returns the symclass-like word touching offset, both ends included.
func WordAt(text string, offset int) (string, position.Span, bool) {
	if offset < 0 || offset > len(text) {
		return "", position.Span{}, false
	}

	for _, loc := range wordPattern.FindAllStringIndex(text, -1) {
		if loc[0] > offset {
			break
		}
		if offset <= loc[1] {
			span := position.NewSpan(position.PlaceOf(text, loc[0]), loc[0], position.PlaceOf(text, loc[1]), loc[1])
			return text[loc[0]:loc[1]], span, true
		}
	}
	return "", position.Span{}, false
}

// Resolver answers definition requests.
type Resolver struct {
	Index *manifest.Index

	// Root is the workspace directory declaration paths are relative to.
	Root string
}

func NewResolver(index *manifest.Index, root string) *Resolver {
	return &Resolver{Index: index, Root: root}
}

// inTrackedValue reports whether offset is inside the value of a comment,
// declaration or watched attribute.
func inTrackedValue(res *scanner.Result, offset int) bool {
	if res == nil {
		return false
	}
	tag := res.TagAt(offset)
	if tag == nil {
		return false
	}
	for _, tr := range tag.Tracks(scanner.KindComment, scanner.KindDeclaration, scanner.KindWatched) {
		if tr.ValueSpan.ContainsOffset(offset) {
			return true
		}
	}
	return false
}

// Define returns the first declaration of the symclass under the caret. In
// markup documents the caret must sit inside a tracked value; stylesheets
// resolve anywhere.
func (r *Resolver) Define(ctx context.Context, text string, offset int, res *scanner.Result, stylesheet bool) (manifest.Location, bool) {
	if !stylesheet && !inTrackedValue(res, offset) {
		return manifest.Location{}, false
	}

	word, _, ok := WordAt(text, offset)
	if !ok {
		return manifest.Location{}, false
	}

	data, ok := r.Index.Attachable(word)
	if !ok || len(data.Declarations) == 0 {
		zerolog.Ctx(ctx).Debug().Str("word", word).Msg("no declaration found")
		return manifest.Location{}, false
	}

	loc, ok := manifest.ParseLocation(data.Declarations[0])
	if !ok {
		zerolog.Ctx(ctx).Debug().Str("word", word).Str("declaration", data.Declarations[0]).Msg("unparsable declaration")
		return manifest.Location{}, false
	}

	if !filepath.IsAbs(loc.Path) {
		loc.Path = filepath.Join(r.Root, loc.Path)
	}

	zerolog.Ctx(ctx).Debug().Str("word", word).Str("path", loc.Path).Msg("resolved definition")

	return loc, true
}
