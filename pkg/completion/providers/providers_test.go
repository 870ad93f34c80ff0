package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/tagsense/pkg/cssdata"
	"github.com/walteh/tagsense/pkg/manifest"
)

func labels(items []CompletionItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func inserts(items []CompletionItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.InsertText)
	}
	return out
}

var symclassTable = map[string]manifest.Metadata{
	"btn":           {},
	"btn$primary":   {},
	"btn$ghost":     {},
	"/ui/card":      {},
	"/ui/card$wide": {},
	"/kit/x":        {},
}

func TestSymclassProvider_Smart(t *testing.T) {
	provider := NewSymclassProvider(true)

	tests := []struct {
		name       string
		prefix     string
		wantLabels []string
	}{
		{
			name:       "top level lists names and native clusters",
			prefix:     "",
			wantLabels: []string{"btn", "[btn$]"},
		},
		{
			name:       "leading slash lists libraries",
			prefix:     "/",
			wantLabels: []string{"[/kit/]", "[/ui/]"},
		},
		{
			name:       "library lists its members and clusters",
			prefix:     "/ui/",
			wantLabels: []string{"card", "[card$]"},
		},
		{
			name:       "library cluster lists members",
			prefix:     "/ui/card$",
			wantLabels: []string{"wide"},
		},
		{
			name:       "native cluster lists members",
			prefix:     "btn$",
			wantLabels: []string{"ghost", "primary"},
		},
		{
			name:       "native cluster filters by prefix",
			prefix:     "btn$p",
			wantLabels: []string{"primary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := provider.GetCompletions(tt.prefix, KindField, symclassTable)
			assert.Equal(t, tt.wantLabels, labels(got))
			for _, it := range got {
				assert.Equal(t, KindField, it.Kind)
			}
		})
	}
}

func TestSymclassProvider_SmartClusterDocs(t *testing.T) {
	got := NewSymclassProvider(true).GetCompletions("/", KindField, symclassTable)
	require.Len(t, got, 2)
	assert.Equal(t, "External Artifact", got[0].Documentation)
	assert.Equal(t, "kit", got[0].InsertText)

	got = NewSymclassProvider(true).GetCompletions("", KindField, symclassTable)
	require.Len(t, got, 2)
	assert.Equal(t, "Native Cluster", got[1].Documentation)
	assert.Equal(t, "btn", got[1].InsertText)
}

func TestSymclassProvider_Simple(t *testing.T) {
	got := NewSymclassProvider(false).GetCompletions("btn", KindVariable, symclassTable)

	assert.Equal(t, []string{"btn", "btn$ghost", "btn$primary"}, labels(got))
	for _, it := range got {
		assert.Equal(t, "External Cluster", it.Documentation)
		assert.Equal(t, KindVariable, it.Kind)
	}
}

func TestSymclassKind(t *testing.T) {
	assert.Equal(t, KindVariable, SymclassKind("_private"))
	assert.Equal(t, KindVariable, SymclassKind("lib$_inner"))
	assert.Equal(t, KindField, SymclassKind("btn"))
	assert.Equal(t, KindField, SymclassKind(""))
}

func TestHashruleProvider_GetCompletions(t *testing.T) {
	provider := NewHashruleProvider(map[string]string{
		"md": "(min-width: 768px)",
		"lg": "(min-width: 1024px)",
	})

	tests := []struct {
		name        string
		attribute   string
		wantInserts []string
	}{
		{name: "after ampersand", attribute: "div&", wantInserts: []string{"#{lg}&", "#{md}&"}},
		{name: "after hash", attribute: "div&#", wantInserts: []string{"{lg}&", "{md}&"}},
		{name: "after open brace", attribute: "div&#{", wantInserts: []string{"lg", "md"}},
		{name: "plain attribute", attribute: "div", wantInserts: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := provider.GetCompletions(tt.attribute)
			if tt.wantInserts == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.wantInserts, inserts(got))
		})
	}

	got := provider.GetCompletions("&")
	require.Len(t, got, 2)
	assert.Equal(t, KindFunction, got[1].Kind)
	assert.Equal(t, ": (min-width: 768px)", got[1].Detail)
	assert.Equal(t, "#md\n `(min-width: 768px)`", got[1].Documentation)
}

func TestVariableProvider_GetCompletions(t *testing.T) {
	provider := NewVariableProvider()

	got := provider.GetCompletions(
		map[string]string{"--a": "1", "--b": "2"},
		map[string]string{"--b": "3"},
		nil,
	)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"--a", "--b"}, labels(got))
	assert.Equal(t, "`--b: 3`", got[1].Documentation)
	assert.Equal(t, KindColor, got[0].Kind)
}

func TestVariableProvider_GetConstantCompletions(t *testing.T) {
	got := NewVariableProvider().GetConstantCompletions(map[string]string{"---brand": "red"}, "Constant")

	require.Len(t, got, 1)
	assert.Equal(t, "---brand", got[0].Label)
	assert.Equal(t, "Constant: ---brand", got[0].Documentation)
}

func testCatalog() *cssdata.Catalog {
	return &cssdata.Catalog{
		Properties: []cssdata.Entry{
			{Name: "display", Values: []cssdata.Value{{Name: "block"}, {Name: "flex"}}},
			{Name: "padding", Restrictions: []string{"length", "hashrule"}},
			{Name: "-webkit-appearance", Values: []cssdata.Value{{Name: "none"}}},
		},
		AtDirectives: []cssdata.Entry{
			{Name: "@media", Description: "media"},
			{Name: "@-webkit-keyframes"},
		},
		PseudoClasses:  []cssdata.Entry{{Name: ":hover"}, {Name: ":-moz-focusring"}},
		PseudoElements: []cssdata.Entry{{Name: "::after"}, {Name: "::-webkit-scrollbar"}},
	}
}

func TestStylesheetProvider_GetAtRules(t *testing.T) {
	provider := NewStylesheetProvider(testCatalog())

	assert.Equal(t, []string{"media"}, labels(provider.GetAtRules("@me")))
	assert.Equal(t, []string{"-webkit-keyframes"}, labels(provider.GetAtRules("@-w")))
}

func TestStylesheetProvider_GetPseudo(t *testing.T) {
	provider := NewStylesheetProvider(testCatalog())

	classes := provider.GetPseudo("ho", false)
	require.Len(t, classes, 1)
	assert.Equal(t, ":hover (snippet)", classes[0].Label)
	assert.Equal(t, "hover", classes[0].InsertText)

	elements := provider.GetPseudo("", true)
	require.Len(t, elements, 1)
	assert.Equal(t, "after", elements[0].InsertText)
}

func TestStylesheetProvider_GetProperties(t *testing.T) {
	provider := NewStylesheetProvider(testCatalog())

	got := provider.GetProperties("d")
	assert.Equal(t, []string{
		"display (snippet)",
		"padding (snippet)",
		"display: block",
		"display: flex",
		"padding (fragment)",
	}, labels(got))
	assert.Equal(t, "padding: $1 $2 $3 $4;", got[4].InsertText)
	assert.True(t, got[4].Snippet)
	assert.Equal(t, KindSnippet, got[4].Kind)

	vendor := provider.GetProperties("-w")
	assert.Equal(t, []string{"-webkit-appearance (snippet)", "-webkit-appearance: none"}, labels(vendor))
}

func TestStylesheetProvider_GetValues(t *testing.T) {
	provider := NewStylesheetProvider(testCatalog())

	assert.Equal(t, []string{"flex"}, labels(provider.GetValues("display", "f")))
	assert.Empty(t, provider.GetValues("unknown", ""))
}

func TestStylesheetProvider_NilCatalog(t *testing.T) {
	provider := NewStylesheetProvider(nil)

	assert.Empty(t, provider.GetProperties(""))
	assert.Equal(t, []string{"--attach", "--assign"}, labels(provider.GetCustomAtRules(KindProperty, "Custom AtRule: ")))
}
