package providers

import (
	"fmt"
)

// VariableProvider handles variable completions
type VariableProvider struct{}

// NewVariableProvider creates a new variable completion provider
func NewVariableProvider() *VariableProvider {
	return &VariableProvider{}
}

// GetCompletions returns one item per variable, later scopes overriding
// earlier ones
func (p *VariableProvider) GetCompletions(scopes ...map[string]string) []CompletionItem {
	merged := map[string]string{}
	for _, scope := range scopes {
		for k, v := range scope {
			merged[k] = v
		}
	}

	var completions []CompletionItem
	for _, key := range sortedKeys(merged) {
		completions = append(completions, item(key, key, KindColor, fmt.Sprintf("`%s: %s`", key, merged[key])))
	}
	return completions
}

// GetConstantCompletions returns the names of constants, documented with label
func (p *VariableProvider) GetConstantCompletions(constants map[string]string, label string) []CompletionItem {
	var completions []CompletionItem
	for _, key := range sortedKeys(constants) {
		completions = append(completions, item(key, key, KindColor, fmt.Sprintf("%s: %s", label, key)))
	}
	return completions
}
