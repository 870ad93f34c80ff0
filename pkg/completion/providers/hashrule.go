package providers

import (
	"fmt"
	"strings"
)

// HashruleProvider handles #{name} completions inside declaration attributes
type HashruleProvider struct {
	hashrules map[string]string
}

// NewHashruleProvider creates a new hashrule completion provider
func NewHashruleProvider(hashrules map[string]string) *HashruleProvider {
	return &HashruleProvider{hashrules: hashrules}
}

// GetCompletions returns hashrule completions for the attribute text typed so
// far. What is inserted depends on how much of "#{" is already there.
func (p *HashruleProvider) GetCompletions(attribute string) []CompletionItem {
	var format string
	switch {
	case strings.HasSuffix(attribute, "&"):
		format = "#{%s}&"
	case strings.HasSuffix(attribute, "#"):
		format = "{%s}&"
	case strings.HasSuffix(attribute, "#{"):
		format = "%s"
	default:
		return nil
	}

	var completions []CompletionItem
	for _, key := range sortedKeys(p.hashrules) {
		value := p.hashrules[key]
		c := item(key, fmt.Sprintf(format, key), KindFunction, fmt.Sprintf("#%s\n `%s`", key, value))
		c.Detail = ": " + value
		completions = append(completions, c)
	}
	return completions
}
