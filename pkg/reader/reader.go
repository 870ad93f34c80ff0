// Package reader provides the forward text walker the scanners are built on.
//
// A Reader sits on one rune at a time. Its Place is the position where the
// current rune starts, so a token that begins at the current rune can take
// Place() as its start and End() once its last rune has been read.
//
//	text:   < a   x = 1 >
//	        ^ Place() = 0:0, End() = 0:1
//
// Backtracking is limited to a single checkpoint slot: a tag attempt saves the
// walker at its opening delimiter and restores it if the tag never closes.
package reader

import (
	"unicode/utf8"

	"github.com/walteh/tagsense/pkg/position"
)

// EOF is returned by Char, Peek and Prev past either end of the text.
const EOF rune = -1

type state struct {
	offset int
	char   rune
	width  int
	place  position.Place
}

// Reader walks an immutable text buffer rune by rune.
type Reader struct {
	text     string
	active   state
	saved    state
	hasSaved bool
}

// New returns a Reader positioned on the first rune of text.
func New(text string) *Reader {
	return NewAt(text, 0, position.Place{})
}

// NewAt returns a Reader positioned on the rune at offset, which the caller
// asserts to be at place. It lets fragment scanners walk a sub-span without
// recounting lines from the top of the buffer.
func NewAt(text string, offset int, place position.Place) *Reader {
	r := &Reader{text: text}
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	r.active.offset = offset
	r.active.place = place
	r.decode()
	return r
}

func (r *Reader) decode() {
	if r.active.offset >= len(r.text) {
		r.active.char = EOF
		r.active.width = 0
		return
	}
	r.active.char, r.active.width = utf8.DecodeRuneInString(r.text[r.active.offset:])
}

// Text returns the whole buffer.
func (r *Reader) Text() string {
	return r.text
}

// Char returns the current rune, or EOF.
func (r *Reader) Char() rune {
	return r.active.char
}

// Peek returns the rune after the current one, or EOF.
func (r *Reader) Peek() rune {
	next := r.active.offset + r.active.width
	if next >= len(r.text) {
		return EOF
	}
	ch, _ := utf8.DecodeRuneInString(r.text[next:])
	return ch
}

// Prev returns the rune before the current one, or EOF at the start of the buffer.
func (r *Reader) Prev() rune {
	if r.active.offset == 0 {
		return EOF
	}
	ch, _ := utf8.DecodeLastRuneInString(r.text[:r.active.offset])
	return ch
}

// Offset returns the byte offset of the current rune.
func (r *Reader) Offset() int {
	return r.active.offset
}

// NextOffset returns the byte offset just past the current rune.
func (r *Reader) NextOffset() int {
	return r.active.offset + r.active.width
}

// Place returns the position where the current rune starts.
func (r *Reader) Place() position.Place {
	return r.active.place
}

// End returns the position just past the current rune.
func (r *Reader) End() position.Place {
	switch r.active.char {
	case EOF:
		return r.active.place
	case '\n':
		return position.Place{Line: r.active.place.Line + 1, Character: 0}
	default:
		return position.Place{Line: r.active.place.Line, Character: r.active.place.Character + 1}
	}
}

// EOF reports whether the reader has walked past the last rune.
func (r *Reader) EOF() bool {
	return r.active.char == EOF
}

// Advance moves forward one rune and returns the new current rune.
func (r *Reader) Advance() rune {
	if r.EOF() {
		return EOF
	}
	r.active.place = r.End()
	r.active.offset += r.active.width
	r.decode()
	return r.active.char
}

// Retreat moves back one rune and returns the new current rune. It is the
// exact inverse of Advance, including across line breaks.
func (r *Reader) Retreat() rune {
	if r.active.offset == 0 {
		return r.active.char
	}

	ch, width := utf8.DecodeLastRuneInString(r.text[:r.active.offset])
	r.active.offset -= width
	r.active.char = ch
	r.active.width = width

	if ch != '\n' {
		r.active.place.Character--
		return ch
	}

	r.active.place.Line--
	r.active.place.Character = utf8.RuneCountInString(r.text[lineStart(r.text, r.active.offset):r.active.offset])
	return ch
}

func lineStart(text string, offset int) int {
	for i := offset - 1; i >= 0; i-- {
		if text[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// Checkpoint saves the complete walker state into the single fallback slot,
// replacing anything saved before.
func (r *Reader) Checkpoint() {
	r.saved = r.active
	r.hasSaved = true
}

// Restore loads the fallback slot and reports whether there was one. The slot
// is consumed.
func (r *Reader) Restore() bool {
	if !r.hasSaved {
		return false
	}
	r.active = r.saved
	r.hasSaved = false
	return true
}

// Discard clears the fallback slot without moving.
func (r *Reader) Discard() {
	r.hasSaved = false
}

// HasCheckpoint reports whether the fallback slot is filled.
func (r *Reader) HasCheckpoint() bool {
	return r.hasSaved
}
