package scanner

import (
	"maps"

	"github.com/walteh/tagsense/pkg/position"
)

// NoQuery disables cursor context capture.
const NoQuery = -1

// Kind identifies which list of a tag's cache a Track belongs to.
type Kind uint8

const (
	// KindComment is an attribute that is exactly "&"; its value is prose.
	KindComment Kind = iota + 1

	// KindDeclaration is a composition or symclass definition: the attribute
	// ends with "&" or has the shape name$name.
	KindDeclaration

	// KindWatched is an attribute the file manifest asks us to decompose.
	KindWatched

	// KindDefault is any other attribute. It is kept but never decomposed.
	KindDefault

	// KindHashrule is a #{name} placeholder inside a declaration attribute.
	KindHashrule

	// KindValueFragment is a token split out of a declaration value.
	KindValueFragment

	// KindWatchFragment is a token split out of a watched value.
	KindWatchFragment

	// KindOutsideFragment is a token found in text between tags.
	KindOutsideFragment
)

func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindDeclaration:
		return "declaration"
	case KindWatched:
		return "watched"
	case KindDefault:
		return "default"
	case KindHashrule:
		return "hashrule"
	case KindValueFragment:
		return "value-fragment"
	case KindWatchFragment:
		return "watch-fragment"
	case KindOutsideFragment:
		return "outside-fragment"
	default:
		return "unknown"
	}
}

// IsPair reports whether tracks of this kind are attribute/value pairs rather
// than single tokens.
func (k Kind) IsPair() bool {
	switch k {
	case KindComment, KindDeclaration, KindWatched, KindDefault:
		return true
	}
	return false
}

// MarshalText lets encoders print kinds by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Track is one classified unit inside a tag. Token kinds (hashrules and
// fragments) carry the token as both Attribute and Value and share one span.
type Track struct {
	Kind          Kind          `json:"kind" yaml:"kind"`
	Attribute     string        `json:"attribute" yaml:"attribute"`
	AttributeSpan position.Span `json:"attributeSpan" yaml:"attributeSpan"`
	Value         string        `json:"value" yaml:"value"`
	ValueSpan     position.Span `json:"valueSpan" yaml:"valueSpan"`
	BlockSpan     position.Span `json:"blockSpan" yaml:"blockSpan"`
	MultiLine     bool          `json:"multiLine,omitempty" yaml:"multiLine,omitempty"`
	Fragments     []string      `json:"fragments,omitempty" yaml:"fragments,omitempty"`
}

func tokenTrack(kind Kind, token string, span position.Span) Track {
	return Track{
		Kind:          kind,
		Attribute:     token,
		AttributeSpan: span,
		Value:         token,
		ValueSpan:     span,
		BlockSpan:     span,
	}
}

// Cache holds the classified tracks of one tag.
type Cache struct {
	Comments       []Track `json:"comments,omitempty" yaml:"comments,omitempty"`
	Declarations   []Track `json:"declarations,omitempty" yaml:"declarations,omitempty"`
	Watched        []Track `json:"watched,omitempty" yaml:"watched,omitempty"`
	Defaults       []Track `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Hashrules      []Track `json:"hashrules,omitempty" yaml:"hashrules,omitempty"`
	ValueFragments []Track `json:"valueFragments,omitempty" yaml:"valueFragments,omitempty"`
	WatchFragments []Track `json:"watchFragments,omitempty" yaml:"watchFragments,omitempty"`
}

// List returns the tracks of one kind.
func (c *Cache) List(kind Kind) []Track {
	switch kind {
	case KindComment:
		return c.Comments
	case KindDeclaration:
		return c.Declarations
	case KindWatched:
		return c.Watched
	case KindDefault:
		return c.Defaults
	case KindHashrule:
		return c.Hashrules
	case KindValueFragment:
		return c.ValueFragments
	case KindWatchFragment:
		return c.WatchFragments
	}
	return nil
}

func (c *Cache) add(t Track) {
	switch t.Kind {
	case KindComment:
		c.Comments = append(c.Comments, t)
	case KindDeclaration:
		c.Declarations = append(c.Declarations, t)
	case KindWatched:
		c.Watched = append(c.Watched, t)
	case KindDefault:
		c.Defaults = append(c.Defaults, t)
	case KindHashrule:
		c.Hashrules = append(c.Hashrules, t)
	case KindValueFragment:
		c.ValueFragments = append(c.ValueFragments, t)
	case KindWatchFragment:
		c.WatchFragments = append(c.WatchFragments, t)
	}
}

// TagRange is one closed <...> region.
type TagRange struct {
	Span position.Span `json:"span" yaml:"span"`

	// Variables starts empty; collaborators fill it from manifest metadata
	// while resolving the tag's references.
	Variables map[string]string `json:"variables" yaml:"variables"`

	Cache Cache `json:"cache" yaml:"cache"`
}

// Tracks returns the tag's tracks of the given kinds in kind order, or every
// attribute/value pair when no kind is given.
func (t *TagRange) Tracks(kinds ...Kind) []Track {
	if len(kinds) == 0 {
		kinds = []Kind{KindComment, KindDeclaration, KindWatched, KindDefault}
	}
	var out []Track
	for _, k := range kinds {
		out = append(out, t.Cache.List(k)...)
	}
	return out
}

// CursorContext is the lexical state at the query offset.
type CursorContext struct {
	// Raw is the text from the start of the current attribute to the offset.
	Raw string `json:"raw" yaml:"raw"`

	// Attribute is the attribute text accumulated before the offset.
	Attribute string `json:"attribute" yaml:"attribute"`

	// Value is the value text accumulated before the offset.
	Value string `json:"value" yaml:"value"`

	// InTag is set by Analyze when the offset was reached inside a tag attempt.
	InTag bool `json:"inTag" yaml:"inTag"`
}

// IsEmpty reports whether no text was captured.
func (c CursorContext) IsEmpty() bool {
	return c.Raw == "" && c.Attribute == "" && c.Value == ""
}

// merge copies each non-empty field of other into an empty field of c.
// Fields already populated are never overwritten.
func (c *CursorContext) merge(other CursorContext) {
	if c.Raw == "" {
		c.Raw = other.Raw
	}
	if c.Attribute == "" {
		c.Attribute = other.Attribute
	}
	if c.Value == "" {
		c.Value = other.Value
	}
}

// Result is everything one Scan produces.
type Result struct {
	Tags    []*TagRange   `json:"tags" yaml:"tags"`
	Cursor  CursorContext `json:"cursor" yaml:"cursor"`
	Outside []Track       `json:"outside,omitempty" yaml:"outside,omitempty"`
}

// Clone returns a copy whose tags can be mutated without affecting r. Track
// slices are shared; they are never written after Scan returns.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := &Result{Cursor: r.Cursor, Outside: r.Outside, Tags: make([]*TagRange, len(r.Tags))}
	for i, tag := range r.Tags {
		cp := *tag
		cp.Variables = maps.Clone(tag.Variables)
		if cp.Variables == nil {
			cp.Variables = map[string]string{}
		}
		out.Tags[i] = &cp
	}
	return out
}

// Tracks returns the given kinds across all tags, in document order of tags.
func (r *Result) Tracks(kinds ...Kind) []Track {
	var out []Track
	for _, tag := range r.Tags {
		out = append(out, tag.Tracks(kinds...)...)
	}
	return out
}

// TagAt returns the tag whose span contains offset, or nil.
func (r *Result) TagAt(offset int) *TagRange {
	for _, tag := range r.Tags {
		if tag.Span.ContainsOffset(offset) {
			return tag
		}
		if tag.Span.StartOffset > offset {
			break
		}
	}
	return nil
}

// TagContaining returns the first tag whose span contains rng, or nil.
func (r *Result) TagContaining(rng position.Range) *TagRange {
	for _, tag := range r.Tags {
		if tag.Span.ContainsRange(rng) {
			return tag
		}
	}
	return nil
}
