package providers

import (
	"fmt"
	"strings"

	"github.com/walteh/tagsense/pkg/cssdata"
)

// CustomAtRules are the directives the compiler adds to stylesheets.
var CustomAtRules = []string{"--attach", "--assign"}

// StylesheetProvider handles completions backed by the stylesheet reference
type StylesheetProvider struct {
	css *cssdata.Catalog
}

// NewStylesheetProvider creates a new stylesheet completion provider
func NewStylesheetProvider(css *cssdata.Catalog) *StylesheetProvider {
	if css == nil {
		css = &cssdata.Catalog{}
	}
	return &StylesheetProvider{css: css}
}

func vendored(fragment, name, marker string) bool {
	return strings.HasPrefix(fragment, marker) == strings.HasPrefix(name, marker)
}

// GetCustomAtRules returns the compiler's own at-rules
func (p *StylesheetProvider) GetCustomAtRules(kind, docPrefix string) []CompletionItem {
	var completions []CompletionItem
	for _, rule := range CustomAtRules {
		completions = append(completions, item(rule, rule, kind, docPrefix+rule))
	}
	return completions
}

// GetAtRules returns standard at-rules. Vendor-prefixed rules are offered
// only when the fragment is vendor-prefixed too.
func (p *StylesheetProvider) GetAtRules(fragment string) []CompletionItem {
	var completions []CompletionItem
	for _, rule := range p.css.AtDirectives {
		if vendored(fragment, rule.Name, "@-") {
			name := strings.TrimPrefix(rule.Name, "@")
			completions = append(completions, item(name, name, KindFunction,
				fmt.Sprintf("CSS standard AtRule: %s\n---\n%s", rule.Name, rule.Description)))
		}
	}
	return completions
}

// GetPseudo returns pseudo elements after "::" and pseudo classes otherwise.
func (p *StylesheetProvider) GetPseudo(fragment string, elements bool) []CompletionItem {
	entries, marker := p.css.PseudoClasses, ":"
	if elements {
		entries, marker = p.css.PseudoElements, "::"
	}

	var completions []CompletionItem
	for _, e := range entries {
		if vendored(fragment, e.Name, marker+"-") {
			completions = append(completions, item(e.Name+" (snippet)", strings.TrimPrefix(e.Name, marker), KindProperty,
				"CSS Property Snippet: "+e.Name))
		}
	}
	return completions
}

// GetProperties returns property names, then whole property declarations.
func (p *StylesheetProvider) GetProperties(fragment string) []CompletionItem {
	var names, fragments []CompletionItem
	for _, prop := range p.css.Properties {
		if !vendored(fragment, prop.Name, "-") {
			continue
		}

		names = append(names, item(prop.Name+" (snippet)", prop.Name, KindProperty, "CSS Property Snippet: "+prop.Name))

		if prop.HasRestriction("hashrule") {
			c := item(prop.Name+" (fragment)", prop.Name+": $1 $2 $3 $4;", KindSnippet, "CSS hashrule Property Fragment: "+prop.Name)
			c.Snippet = true
			fragments = append(fragments, c)
			continue
		}
		for _, v := range prop.Values {
			c := item(prop.Name+": "+v.Name, prop.Name+": "+v.Name+";", KindValue,
				fmt.Sprintf("CSS Property: %s, Value: %s", prop.Name, v.Name))
			c.Snippet = true
			fragments = append(fragments, c)
		}
	}
	return append(names, fragments...)
}

// GetValues returns the known values of property starting with fragment.
func (p *StylesheetProvider) GetValues(property, fragment string) []CompletionItem {
	prop, ok := p.css.Property(property)
	if !ok {
		return nil
	}

	var completions []CompletionItem
	for _, v := range prop.Values {
		if strings.HasPrefix(v.Name, fragment) {
			completions = append(completions, item(v.Name, v.Name, KindValue,
				fmt.Sprintf("CSS Property: %s, Value: %s", prop.Name, v.Name)))
		}
	}
	return completions
}
