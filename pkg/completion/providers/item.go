package providers

import (
	"regexp"
	"sort"
)

// CompletionItem represents a single completion suggestion
type CompletionItem struct {
	Label         string `json:"label" yaml:"label"`
	Kind          string `json:"kind" yaml:"kind"`
	InsertText    string `json:"insertText" yaml:"insertText"`
	Detail        string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`

	// Snippet marks InsertText as a tab-stop snippet ($1, $2, ...).
	Snippet bool `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

const (
	KindField    = "field"
	KindVariable = "variable"
	KindFunction = "function"
	KindProperty = "property"
	KindValue    = "value"
	KindColor    = "color"
	KindSnippet  = "snippet"
)

func item(label, insert, kind, doc string) CompletionItem {
	return CompletionItem{Label: label, InsertText: insert, Kind: kind, Documentation: doc}
}

var atStyle = regexp.MustCompile(`^_|\$_`)

// SymclassKind is the icon for a symclass reference: names starting a private
// "_" segment show as variables, everything else as fields.
func SymclassKind(fragment string) string {
	if atStyle.MatchString(fragment) {
		return KindVariable
	}
	return KindField
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(set map[string]struct{}) []string {
	return sortedKeys(set)
}
