package manifest

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Index is a StyleManifest resolved into lookups by symclass name.
type Index struct {
	Attachables map[string]Metadata
	Assignables map[string]Metadata
}

// NewIndex resolves every symclass to its metadata and prepares the hover
// markdown. A symclass pointing at missing data is an error; the caller
// should keep its previous index in that case.
func NewIndex(m *StyleManifest) (*Index, error) {
	idx := &Index{
		Attachables: map[string]Metadata{},
		Assignables: map[string]Metadata{},
	}
	if m == nil {
		return idx, nil
	}

	for name, i := range m.Symclasses {
		data, ok := m.SymclassData[i]
		if !ok {
			return nil, errors.Errorf("symclass %q: no data at index %d", name, i)
		}
		if data.Markdown == "" && strings.HasPrefix(name, "/") {
			data.Markdown = FormatMetadata(name, data, "Attachable")
		}
		idx.Attachables[name] = data
	}

	for _, name := range m.Assignable {
		data, ok := idx.Attachables[name]
		if !ok {
			return nil, errors.Errorf("assignable %q: not a known symclass", name)
		}
		if data.Markdown != "" {
			data.Markdown = "Assignable & " + data.Markdown
		} else {
			data.Markdown = FormatMetadata(name, data, "Attachable")
		}
		idx.Assignables[name] = data
	}

	return idx, nil
}

// Attachable returns the metadata of a symclass that can be attached.
func (x *Index) Attachable(name string) (Metadata, bool) {
	if x == nil {
		return Metadata{}, false
	}
	m, ok := x.Attachables[name]
	return m, ok
}

// Assignable returns the metadata of a symclass that can be assigned.
func (x *Index) Assignable(name string) (Metadata, bool) {
	if x == nil {
		return Metadata{}, false
	}
	m, ok := x.Assignables[name]
	return m, ok
}

// AttachableNames returns every attachable symclass, sorted.
func (x *Index) AttachableNames() []string {
	if x == nil {
		return nil
	}
	return sortedKeys(x.Attachables)
}

// AssignableNames returns every assignable symclass, sorted.
func (x *Index) AssignableNames() []string {
	if x == nil {
		return nil
	}
	return sortedKeys(x.Assignables)
}
