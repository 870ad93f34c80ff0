// Package manifest holds the configuration the external compiler publishes
// for a workspace: which attributes to watch, which hashrules and constants
// exist, and the metadata of every symclass it knows about.
package manifest

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileManifest configures how files in the workspace are scanned.
type FileManifest struct {
	Environment string            `json:"environment" yaml:"environment" hcl:"environment,optional"`
	Attributes  []string          `json:"attributes" yaml:"attributes" hcl:"attributes,optional"`
	CustomTags  []string          `json:"customtags" yaml:"customtags" hcl:"customtags,optional"`
	SwitchMap   map[string]string `json:"switchmap" yaml:"switchmap" hcl:"switchmap,optional"`
	Hashrules   map[string]string `json:"hashrules" yaml:"hashrules" hcl:"hashrules,optional"`
	Constants   map[string]string `json:"constants" yaml:"constants" hcl:"constants,optional"`
	WatchFiles  []string          `json:"watchfiles" yaml:"watchfiles" hcl:"watchfiles,optional"`
	AssistFile  bool              `json:"assistfile" yaml:"assistfile" hcl:"assistfile,optional"`
	LiveCursor  bool              `json:"livecursor" yaml:"livecursor" hcl:"livecursor,optional"`
	WebviewPort int               `json:"webviewport" yaml:"webviewport" hcl:"webviewport,optional"`
	WebviewURL  string            `json:"webviewurl" yaml:"webviewurl" hcl:"webviewurl,optional"`
}

// Metadata describes one symclass.
type Metadata struct {
	Info         []string          `json:"info,omitempty" yaml:"info,omitempty"`
	Skeleton     map[string]any    `json:"skeleton,omitempty" yaml:"skeleton,omitempty"`
	Variables    map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	Declarations []string          `json:"declarations,omitempty" yaml:"declarations,omitempty"`
	Summon       string            `json:"summon,omitempty" yaml:"summon,omitempty"`
	Markdown     string            `json:"markdown,omitempty" yaml:"markdown,omitempty"`
}

// Diagnostic is a problem the compiler found, reported against one or more
// "path[:row][:col]" sources.
type Diagnostic struct {
	Message string   `json:"message" yaml:"message"`
	Sources []string `json:"sources" yaml:"sources"`
}

// StyleManifest is the compiler's view of every symclass in the workspace.
type StyleManifest struct {
	Locales      []string         `json:"locales" yaml:"locales"`
	Assignable   []string         `json:"assignable" yaml:"assignable"`
	Symclasses   map[string]int   `json:"symclasses" yaml:"symclasses"`
	SymclassData map[int]Metadata `json:"symclassData" yaml:"symclassData"`
	Diagnostics  []Diagnostic     `json:"diagnostics" yaml:"diagnostics"`
}

// VarFilter returns the constants, and then the extra variables, whose names
// start with prefix. Extra entries win on conflict.
func (m *FileManifest) VarFilter(prefix string, extra map[string]string) map[string]string {
	vars := map[string]string{}
	for k, v := range m.Constants {
		if strings.HasPrefix(k, prefix) {
			vars[k] = v
		}
	}
	for k, v := range extra {
		if strings.HasPrefix(k, prefix) {
			vars[k] = v
		}
	}
	return vars
}

// IsWatched reports whether path should be scanned at all. AssistFile turns
// scanning on for every file.
func (m *FileManifest) IsWatched(path string) bool {
	if m.AssistFile {
		return true
	}
	for _, pattern := range m.WatchFiles {
		if pattern == path {
			return true
		}
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// TogglePath maps path to its counterpart through SwitchMap. The longest
// matching prefix is replaced; path is returned unchanged when none match.
func (m *FileManifest) TogglePath(path string) string {
	prefixes := make([]string, 0, len(m.SwitchMap))
	for k := range m.SwitchMap {
		if k != "" && strings.HasPrefix(path, k) {
			prefixes = append(prefixes, k)
		}
	}
	if len(prefixes) == 0 {
		return path
	}

	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	return m.SwitchMap[prefixes[0]] + strings.TrimPrefix(path, prefixes[0])
}
