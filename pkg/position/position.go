package position

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Place is a zero-based line and character. Characters are counted in runes
// from the start of the line.
type Place struct {
	Line      int `json:"line" yaml:"line"`
	Character int `json:"character" yaml:"character"`
}

// Before reports whether p comes strictly before other.
func (p Place) Before(other Place) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// After reports whether p comes strictly after other.
func (p Place) After(other Place) bool {
	return other.Before(p)
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open line/character interval.
type Range struct {
	Start Place `json:"start" yaml:"start"`
	End   Place `json:"end" yaml:"end"`
}

// IsEmpty reports whether the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether p lies within the range, both ends included, the
// way editors treat a caret touching a word.
func (r Range) Contains(p Place) bool {
	return !p.Before(r.Start) && !p.After(r.End)
}

// ContainsRange reports whether other lies completely within r.
func (r Range) ContainsRange(other Range) bool {
	return r.Contains(other.Start) && r.Contains(other.End)
}

// IsMultiLine reports whether the range spans more than one line.
func (r Range) IsMultiLine() bool {
	return r.Start.Line != r.End.Line
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Span is a Range paired with the byte offsets it was derived from.
// EndOffset is exclusive so src[StartOffset:EndOffset] is the spanned text.
type Span struct {
	Range       `yaml:",inline"`
	StartOffset int `json:"startOffset" yaml:"startOffset"`
	EndOffset   int `json:"endOffset" yaml:"endOffset"`
}

// NewSpan builds a span from its two ends.
func NewSpan(start Place, startOffset int, end Place, endOffset int) Span {
	return Span{
		Range:       Range{Start: start, End: end},
		StartOffset: startOffset,
		EndOffset:   endOffset,
	}
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.EndOffset - s.StartOffset
}

// Text returns the spanned slice of src, or "" when the span does not fit.
func (s Span) Text(src string) string {
	if s.StartOffset < 0 || s.EndOffset > len(src) || s.StartOffset > s.EndOffset {
		return ""
	}
	return src[s.StartOffset:s.EndOffset]
}

// ContainsOffset reports whether offset lies within the span, both ends included.
func (s Span) ContainsOffset(offset int) bool {
	return offset >= s.StartOffset && offset <= s.EndOffset
}

// ContainsSpan reports whether other lies completely within s.
func (s Span) ContainsSpan(other Span) bool {
	return other.StartOffset >= s.StartOffset && other.EndOffset <= s.EndOffset
}

// Overlaps reports whether the two spans share at least one byte. A zero-length
// span overlaps when it falls inside the other span.
func (s Span) Overlaps(other Span) bool {
	if s.Len() == 0 {
		return other.ContainsOffset(s.StartOffset)
	}
	if other.Len() == 0 {
		return s.ContainsOffset(other.StartOffset)
	}
	return other.StartOffset < s.EndOffset && other.EndOffset > s.StartOffset
}

func (s Span) String() string {
	return fmt.Sprintf("%s@%d:%d", s.Range, s.StartOffset, s.EndOffset)
}

// PlaceOf calculates the line and character for a byte offset in text.
// Offsets past the end of text are clamped.
func PlaceOf(text string, offset int) Place {
	if offset > len(text) {
		offset = len(text)
	}

	place := Place{}
	for i, r := range text {
		if i >= offset {
			break
		}
		if r == '\n' {
			place.Line++
			place.Character = 0
			continue
		}
		place.Character++
	}

	return place
}

// OffsetOf is the inverse of PlaceOf. A character past the end of its line
// resolves to the line break; a line past the end of text resolves to len(text).
func OffsetOf(text string, p Place) int {
	offset := 0
	for line := 0; line < p.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}
		offset += next + 1
	}

	for char := 0; char < p.Character && offset < len(text); char++ {
		if text[offset] == '\n' {
			break
		}
		_, size := utf8.DecodeRuneInString(text[offset:])
		offset += size
	}

	return offset
}
