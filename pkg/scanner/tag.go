package scanner

import (
	"regexp"
	"slices"
	"strings"

	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/reader"
)

var declarationPattern = regexp.MustCompile(`^[\w-]+\$+[\w-]+$`)

// Classify decides the kind of an attribute/value pair from its attribute
// text. It is the only place the classification rules live.
func Classify(attribute string, watched []string) Kind {
	switch {
	case attribute == "&":
		return KindComment
	case IsDeclaration(attribute):
		return KindDeclaration
	case slices.Contains(watched, attribute):
		return KindWatched
	default:
		return KindDefault
	}
}

// IsDeclaration reports whether attribute marks a composition (trailing "&")
// or a symclass declaration (name$name).
func IsDeclaration(attribute string) bool {
	if attribute == "&" {
		return false
	}
	return strings.HasSuffix(attribute, "&") || declarationPattern.MatchString(attribute)
}

// IsSymclass reports whether a declaration attribute names a symclass rather
// than a plain composition.
func IsSymclass(attribute string) bool {
	return IsDeclaration(attribute) && !strings.HasSuffix(attribute, "&")
}

func closerOf(open rune) rune {
	switch open {
	case '{':
		return '}'
	case '[':
		return ']'
	case '(':
		return ')'
	case '\'', '"', '`':
		return open
	}
	return 0
}

func isQuote(ch rune) bool {
	return ch == '\'' || ch == '"' || ch == '`'
}

func isOpener(ch rune) bool {
	return ch == '{' || ch == '[' || ch == '(' || isQuote(ch)
}

func isCloser(ch rune) bool {
	return ch == '}' || ch == ']' || ch == ')'
}

func isBoundary(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '>'
}

func isTerminator(ch rune) bool {
	return ch == '>' || ch == ';' || ch == ',' || ch == '<'
}

func isTagLead(ch rune) bool {
	return isASCIIAlnum(ch) || ch == '_' || ch == '/' || ch == '-'
}

// opensTag reports whether the reader sits on a "<" that may start a tag: not
// escaped and followed by something name-like.
func opensTag(r *reader.Reader) bool {
	return r.Char() == '<' && r.Prev() != '\\' && isTagLead(r.Peek())
}

// mark is where an accumulator started or ended.
type mark struct {
	place  position.Place
	offset int
}

func markStart(r *reader.Reader) mark {
	return mark{place: r.Place(), offset: r.Offset()}
}

func markEnd(r *reader.Reader) mark {
	return mark{place: r.End(), offset: r.NextOffset()}
}

func spanOf(from, to mark) position.Span {
	return position.NewSpan(from.place, from.offset, to.place, to.offset)
}

// tagScan holds the state of one tag attempt. It lives exactly as long as the
// attempt so that concurrent or nested scans never share anything.
type tagScan struct {
	r       *reader.Reader
	text    string
	watched []string
	query   int

	// captureOnly skips building tracks; the context analyzer only needs the
	// cursor context.
	captureOnly bool

	stack []rune

	awaitingElement bool
	inValue         bool
	multiLine       bool

	attr      strings.Builder
	val       strings.Builder
	attrStart mark
	attrEnd   mark
	valStart  mark
	valEnd    mark

	cache   Cache
	cursor  CursorContext
	reached bool
}

func newTagScan(r *reader.Reader, watched []string, query int) *tagScan {
	return &tagScan{
		r:               r,
		text:            r.Text(),
		watched:         watched,
		query:           query,
		awaitingElement: true,
	}
}

func (s *tagScan) depth() int {
	return len(s.stack)
}

func (s *tagScan) expecting() rune {
	if len(s.stack) == 0 {
		return 0
	}
	return closerOf(s.stack[len(s.stack)-1])
}

// track feeds ch through the bracket/quote stack. It reports false when ch is
// a closer nobody opened.
func (s *tagScan) track(ch rune) bool {
	switch {
	case s.depth() > 0 && ch == s.expecting():
		s.stack = s.stack[:len(s.stack)-1]
	case isOpener(ch) && !isQuote(s.expecting()):
		s.stack = append(s.stack, ch)
	case s.depth() == 0 && isCloser(ch):
		return false
	}
	return true
}

// run walks from the opening "<" the reader sits on to the end of the tag.
// It returns true when the tag closed with the reader on its ">". Otherwise
// the reader is back on the opening "<".
func (s *tagScan) run() bool {
	r := s.r
	r.Checkpoint()

	closed := false
	for {
		ch := r.Advance()

		if ch == reader.EOF {
			s.anchor()
			s.capture()
			break
		}

		if !s.track(ch) {
			break
		}

		s.anchor()
		s.capture()

		if s.depth() == 0 && isBoundary(ch) {
			if s.awaitingElement {
				s.awaitingElement = false
			} else if s.attr.Len() > 0 {
				s.dispatch()
			}
			s.reset()
		}

		switch {
		case s.depth() > 0 || (!isBoundary(ch) && ch != '='):
			s.accumulate(ch)
		case ch == '=' && (s.inValue || r.Prev() == '\\'):
			s.accumulate(ch)
		case ch == '=':
			s.inValue = true
		}

		if s.val.Len() > 0 && ch == '\n' {
			s.multiLine = true
		}

		if s.depth() == 0 && isTerminator(ch) {
			closed = ch == '>'
			break
		}
	}

	if closed {
		r.Discard()
		return true
	}

	r.Restore()
	return false
}

// anchor moves the start of an empty accumulator onto the current rune.
func (s *tagScan) anchor() {
	if s.attr.Len() == 0 {
		s.attrStart = markStart(s.r)
	}
	if s.val.Len() == 0 {
		s.valStart = markStart(s.r)
	}
}

func (s *tagScan) capture() {
	if s.reached || s.r.Offset() != s.query {
		return
	}
	s.reached = true
	s.cursor = CursorContext{
		Raw:       s.text[s.attrStart.offset:s.query],
		Attribute: s.attr.String(),
		Value:     s.val.String(),
	}
}

func (s *tagScan) accumulate(ch rune) {
	if s.inValue {
		s.val.WriteRune(ch)
		s.valEnd = markEnd(s.r)
		return
	}
	s.attr.WriteRune(ch)
	s.attrEnd = markEnd(s.r)
}

func (s *tagScan) reset() {
	s.attr.Reset()
	s.val.Reset()
	s.inValue = false
	s.multiLine = false
}

// dispatch classifies the completed pair and files it, decomposing the value
// for declarations and watched attributes.
func (s *tagScan) dispatch() {
	if s.captureOnly {
		return
	}

	valEnd := s.valEnd
	if s.val.Len() == 0 {
		valEnd = s.valStart
	}

	t := Track{
		Kind:          Classify(s.attr.String(), s.watched),
		Attribute:     s.attr.String(),
		AttributeSpan: spanOf(s.attrStart, s.attrEnd),
		Value:         s.val.String(),
		ValueSpan:     spanOf(s.valStart, valEnd),
		BlockSpan:     spanOf(s.attrStart, valEnd),
		MultiLine:     s.multiLine,
	}

	switch t.Kind {
	case KindDeclaration:
		for _, h := range scanHashrules(s.text, t.AttributeSpan) {
			s.cache.add(h)
		}
		fragments, tracks := scanValueFragments(s.text, t.ValueSpan, KindValueFragment)
		t.Fragments = fragments
		for _, f := range tracks {
			s.cache.add(f)
		}
	case KindWatched:
		fragments, tracks := scanValueFragments(s.text, t.ValueSpan, KindWatchFragment)
		t.Fragments = fragments
		for _, f := range tracks {
			s.cache.add(f)
		}
	}

	s.cache.add(t)
}
