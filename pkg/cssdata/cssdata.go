// Package cssdata is the stylesheet reference used for hover text and
// completion inside declaration values.
package cssdata

import (
	_ "embed"
	"sync"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

//go:embed browser.yaml
var browserData []byte

const (
	// Browser is the standard web reference and the default.
	Browser = "browser"
	// None disables the reference.
	None = "none"
)

type Value struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Entry is one property, at-rule or pseudo selector.
type Entry struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	Restrictions []string `yaml:"restrictions,omitempty"`
	Values       []Value  `yaml:"values,omitempty"`
}

// HasRestriction reports whether the entry accepts values of the given class.
func (e Entry) HasRestriction(r string) bool {
	for _, have := range e.Restrictions {
		if have == r {
			return true
		}
	}
	return false
}

type Catalog struct {
	Properties     []Entry `yaml:"properties"`
	AtDirectives   []Entry `yaml:"atDirectives"`
	PseudoClasses  []Entry `yaml:"pseudoClasses"`
	PseudoElements []Entry `yaml:"pseudoElements"`
}

// Property looks a property up by name.
func (c *Catalog) Property(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Entry{}, false
}

// Parse decodes a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Errorf("parsing css data: %w", err)
	}
	return &c, nil
}

var loadBrowser = sync.OnceValue(func() *Catalog {
	c, err := Parse(browserData)
	if err != nil {
		panic(err)
	}
	return c
})

// ForEnvironment selects the catalog named by a file manifest environment.
// Unknown names fall back to Browser.
func ForEnvironment(env string) *Catalog {
	if env == None {
		return &Catalog{}
	}
	return loadBrowser()
}
