package providers

import (
	"strings"

	"github.com/walteh/tagsense/pkg/manifest"
)

// SymclassProvider suggests symclass names from an attachable or assignable
// table.
type SymclassProvider struct {
	// Smart groups names into libraries ("/lib/") and clusters ("name$")
	// instead of listing every match.
	Smart bool
}

// NewSymclassProvider creates a new symclass completion provider
func NewSymclassProvider(smart bool) *SymclassProvider {
	return &SymclassProvider{Smart: smart}
}

// GetCompletions returns the symclasses of table matching prefix
func (p *SymclassProvider) GetCompletions(prefix, kind string, table map[string]manifest.Metadata) []CompletionItem {
	if p.Smart {
		return smartFilter(prefix, kind, table)
	}
	return simpleFilter(prefix, kind, table)
}

func simpleFilter(prefix, kind string, table map[string]manifest.Metadata) []CompletionItem {
	var completions []CompletionItem
	for _, key := range sortedKeys(table) {
		if strings.HasPrefix(key, prefix) {
			completions = append(completions, item(key, key, kind, "External Cluster"))
		}
	}
	return completions
}

// smartFilter completes one segment at a time. A lone leading "/" lists
// libraries, a later "/" lists the clusters and members of that library, and a
// "$" lists the members of a cluster.
func smartFilter(prefix, kind string, table map[string]manifest.Metadata) []CompletionItem {
	var (
		completions []CompletionItem
		collections = map[string]struct{}{}
		slash       = strings.LastIndex(prefix, "/")
		dollar      = strings.LastIndex(prefix, "$")
		cut         = max(slash, dollar)
		keys        = sortedKeys(table)
	)

	switch {
	case slash == 0:
		for _, key := range keys {
			if strings.HasPrefix(key, "/") {
				end := strings.LastIndex(key, "/")
				if end <= 0 {
					collections[""] = struct{}{}
					continue
				}
				collections[key[1:end]] = struct{}{}
			}
		}
		for _, lib := range sortedSet(collections) {
			completions = append(completions, item("[/"+lib+"/]", lib, kind, "External Artifact"))
		}

	case slash > 0 && slash < dollar:
		for _, key := range keys {
			if strings.HasPrefix(key, prefix) {
				name := key[cut+1:]
				completions = append(completions, item(name, name, kind, manifest.FormatMetadata(key, table[key], "")))
			}
		}

	case slash > 0:
		library := prefix[:slash+1]
		for _, key := range keys {
			if !strings.HasPrefix(key, library) {
				continue
			}
			keyDollar := strings.LastIndex(key, "$")
			keySlash := strings.LastIndex(key, "/")
			if keyDollar > keySlash {
				collections[key[keySlash+1:keyDollar]] = struct{}{}
				continue
			}
			name := key[keySlash+1:]
			completions = append(completions, item(name, name, kind, manifest.FormatMetadata(key, table[key], "")))
		}
		for _, lib := range sortedSet(collections) {
			completions = append(completions, item("["+lib+"$]", lib, kind, "External Cluster"))
		}

	case dollar > -1:
		for _, key := range keys {
			if !strings.Contains(key, "/") && strings.HasPrefix(key, prefix) {
				name := key[dollar+1:]
				completions = append(completions, item(name, name, kind, manifest.FormatMetadata(key, table[key], "")))
			}
		}

	default:
		for _, key := range keys {
			if strings.Contains(key, "/") {
				continue
			}
			if i := strings.LastIndex(key, "$"); i >= 0 {
				collections[key[:i]] = struct{}{}
				continue
			}
			completions = append(completions, item(key, key, kind, manifest.FormatMetadata(key, table[key], "")))
		}
		for _, lib := range sortedSet(collections) {
			completions = append(completions, item("["+lib+"$]", lib, kind, "Native Cluster"))
		}
	}

	return completions
}
