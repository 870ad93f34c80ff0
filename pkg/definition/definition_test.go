package definition_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/tagsense/pkg/definition"
	"github.com/walteh/tagsense/pkg/manifest"
	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/scanner"
)

func TestWordAt(t *testing.T) {
	text := "a lib$btn b"

	tests := []struct {
		name     string
		offset   int
		wantWord string
		wantSpan [2]int
		wantOK   bool
	}{
		{name: "start of word", offset: 2, wantWord: "lib$btn", wantSpan: [2]int{2, 9}, wantOK: true},
		{name: "inside word", offset: 5, wantWord: "lib$btn", wantSpan: [2]int{2, 9}, wantOK: true},
		{name: "end of word", offset: 9, wantWord: "lib$btn", wantSpan: [2]int{2, 9}, wantOK: true},
		{name: "touching earlier word", offset: 1, wantWord: "a", wantSpan: [2]int{0, 1}, wantOK: true},
		{name: "past the end", offset: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, span, ok := definition.WordAt(text, tt.offset)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantWord, word)
			assert.Equal(t, tt.wantSpan, [2]int{span.StartOffset, span.EndOffset})
		})
	}

	_, _, ok := definition.WordAt("   ", 1)
	assert.False(t, ok)
}

func testIndex() *manifest.Index {
	return &manifest.Index{
		Attachables: map[string]manifest.Metadata{
			"btn":    {Declarations: []string{"styles/btn.css:3:1::4:2", "other.css:1:1::1:1"}},
			"broken": {Declarations: []string{"styles/broken.css"}},
			"bare":   {},
		},
	}
}

func TestResolver_Define(t *testing.T) {
	root := filepath.FromSlash("/ws")
	resolver := definition.NewResolver(testIndex(), root)

	text := `<div class="=btn =broken =bare =nope" title="btn"> btn`
	res := scanner.Scan(text, []string{"class"}, scanner.NoQuery)
	require.Len(t, res.Tags, 1)

	at := func(word string) int {
		return strings.Index(text, word) + 1
	}

	loc, ok := resolver.Define(context.Background(), text, at("btn"), res, false)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "styles/btn.css"), loc.Path)
	assert.Equal(t, position.Range{
		Start: position.Place{Line: 3, Character: 1},
		End:   position.Place{Line: 4, Character: 2},
	}, loc.Range)

	tests := []struct {
		name   string
		offset int
	}{
		{name: "unparsable declaration", offset: at("broken")},
		{name: "no declarations", offset: at("bare")},
		{name: "unknown symclass", offset: at("nope")},
		{name: "default attribute value", offset: strings.Index(text, `"btn"`) + 2},
		{name: "element name", offset: 2},
		{name: "outside any tag", offset: len(text) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := resolver.Define(context.Background(), text, tt.offset, res, false)
			assert.False(t, ok)
		})
	}
}

func TestResolver_DefineStylesheet(t *testing.T) {
	resolver := definition.NewResolver(testIndex(), "/ws")

	text := ".x {\n  ~ btn;\n}"
	loc, ok := resolver.Define(context.Background(), text, strings.Index(text, "btn"), nil, true)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/ws", "styles/btn.css"), loc.Path)
}

func TestResolver_AbsolutePath(t *testing.T) {
	abs := filepath.FromSlash("/abs/x.css")
	index := &manifest.Index{Attachables: map[string]manifest.Metadata{
		"x": {Declarations: []string{abs + ":1:2::1:3"}},
	}}

	loc, ok := definition.NewResolver(index, "/ws").Define(context.Background(), "x", 0, nil, true)
	require.True(t, ok)
	assert.Equal(t, abs, loc.Path)
}

func TestResolver_NilIndex(t *testing.T) {
	_, ok := definition.NewResolver(nil, "/ws").Define(context.Background(), "btn", 1, nil, true)
	assert.False(t, ok)
}
