package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// skeletonNode is the display form of a skeleton object: leaves are the keys
// of empty child objects, children are everything else.
type skeletonNode struct {
	leaves   []string
	strings  map[string]string
	children map[string]*skeletonNode
}

func buildSkeleton(obj map[string]any) *skeletonNode {
	node := &skeletonNode{
		strings:  map[string]string{},
		children: map[string]*skeletonNode{},
	}
	for _, k := range sortedKeys(obj) {
		switch v := obj[k].(type) {
		case string:
			node.strings[k] = v
		case map[string]any:
			if len(v) == 0 {
				node.leaves = append(node.leaves, k)
				continue
			}
			node.children[k] = buildSkeleton(v)
		}
	}
	return node
}

func (n *skeletonNode) lines() []string {
	var keys []string
	for k := range n.strings {
		keys = append(keys, k)
	}
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		if s, ok := n.strings[k]; ok {
			out = append(out, fmt.Sprintf("- *`%s`*: *`%s`*", k, s))
			continue
		}
		child := n.children[k]
		native := make([]string, 0, len(child.leaves))
		for _, leaf := range child.leaves {
			native = append(native, "`"+leaf+"`")
		}
		out = append(out, fmt.Sprintf("- `%s` : %s", k, strings.Join(native, " ")))
		for _, line := range child.lines() {
			out = append(out, "  "+line)
		}
	}
	return out
}

// FormatMetadata renders the hover markdown for a symclass.
func FormatMetadata(selector string, data Metadata, subhead string) string {
	heading := fmt.Sprintf("**`%s`**", selector)
	if subhead != "" {
		heading = subhead + ": " + heading
	}

	lines := []string{heading, ""}
	for _, item := range data.Info {
		lines = append(lines, "- "+item)
	}
	lines = append(lines, "\n- **Skeleton:**")

	for _, k := range sortedKeys(data.Skeleton) {
		name := k
		if name == "" {
			name = "[]"
		}
		lines = append(lines, buildSkeleton(map[string]any{name: data.Skeleton[k]}).lines()...)
	}

	lines = append(lines, "---")
	for _, d := range data.Declarations {
		lines = append(lines, "- "+d)
	}

	return strings.Join(lines, "\n")
}

// MergeMetadata folds several symclasses into one, as seen by an element that
// attaches all of them, and renders it under heading.
func MergeMetadata(heading, declaration string, objects []Metadata) (string, Metadata) {
	merged := Metadata{
		Skeleton:     map[string]any{"": map[string]any{}},
		Declarations: []string{declaration},
		Variables:    map[string]string{},
	}

	for _, obj := range objects {
		merged.Info = append(merged.Info, obj.Info...)
		for k, v := range obj.Variables {
			merged.Variables[k] = v
		}
		merged.Skeleton = mergeObjects(merged.Skeleton, obj.Skeleton)
	}

	return FormatMetadata(heading, merged, ""), merged
}

// mergeObjects deep-merges src into dst: lists concatenate, objects merge
// recursively and anything else is replaced.
func mergeObjects(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		switch sv := v.(type) {
		case []any:
			if dv, ok := out[k].([]any); ok {
				out[k] = append(append([]any{}, dv...), sv...)
				continue
			}
		case map[string]any:
			if dv, ok := out[k].(map[string]any); ok {
				out[k] = mergeObjects(dv, sv)
				continue
			}
		}
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
