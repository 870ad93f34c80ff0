package scanner

import (
	"strings"

	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/reader"
)

// symbols that belong to an identifier-like fragment besides letters and digits.
const fragmentSymbols = `\#$_/:=~!-`

func isASCIIAlnum(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// IsFragmentChar reports whether ch can be part of a value fragment.
func IsFragmentChar(ch rune) bool {
	return isASCIIAlnum(ch) || (ch > 0 && strings.ContainsRune(fragmentSymbols, ch))
}

func isHashruleChar(ch rune) bool {
	return isASCIIAlnum(ch) || ch == '_' || ch == '-'
}

// scanHashrules finds every #{name} placeholder inside span.
func scanHashrules(text string, span position.Span) []Track {
	var (
		tracks      []Track
		name        strings.Builder
		reading     bool
		start       position.Place
		startOffset int
	)

	r := reader.NewAt(text, span.StartOffset, span.Start)
	for !r.EOF() && r.Offset() < span.EndOffset {
		ch := r.Char()

		if reading && isHashruleChar(ch) {
			name.WriteRune(ch)
		}

		if reading && ch == '}' {
			if name.Len() > 0 {
				block := position.NewSpan(start, startOffset, r.End(), r.NextOffset())
				tracks = append(tracks, tokenTrack(KindHashrule, name.String(), block))
			}
			reading = false
			name.Reset()
		}

		if ch == '#' && r.Peek() == '{' {
			reading = true
			start, startOffset = r.Place(), r.Offset()
			name.Reset()
		}

		r.Advance()
	}

	return tracks
}

// fragmentScan splits a span into identifier-like tokens.
type fragmentScan struct {
	kind Kind

	// halting makes &, @ and : suspend tokenizing until {, } or ; so that
	// embedded sub-clauses are skipped. Text outside tags is split without it.
	halting bool
}

func (f fragmentScan) run(text string, span position.Span) ([]string, []Track) {
	var (
		fragments []string
		tracks    []Track
		token     strings.Builder
		halt      bool
		start     position.Place
		end       position.Place
		startOff  int
		endOff    int
	)

	emit := func() {
		if token.Len() == 0 {
			return
		}
		fragments = append(fragments, token.String())
		tracks = append(tracks, tokenTrack(f.kind, token.String(), position.NewSpan(start, startOff, end, endOff)))
		token.Reset()
	}

	r := reader.NewAt(text, span.StartOffset, span.Start)
	for !r.EOF() && r.Offset() < span.EndOffset {
		ch := r.Char()

		if !halt {
			if IsFragmentChar(ch) {
				if token.Len() == 0 {
					start, startOff = r.Place(), r.Offset()
				}
				token.WriteRune(ch)
				end, endOff = r.End(), r.NextOffset()
			} else {
				emit()
			}
		}

		if f.halting {
			switch ch {
			case '&', '@', ':':
				if !halt {
					emit()
				}
				halt = true
			case '{', '}', ';':
				halt = false
			}
		}

		r.Advance()
	}

	// the character after the span is always a separator
	emit()

	return fragments, tracks
}

func scanValueFragments(text string, span position.Span, kind Kind) ([]string, []Track) {
	return fragmentScan{kind: kind, halting: true}.run(text, span)
}

func scanOutsideFragments(text string, span position.Span) []Track {
	if span.Len() <= 0 {
		return nil
	}
	_, tracks := fragmentScan{kind: KindOutsideFragment}.run(text, span)
	return tracks
}
