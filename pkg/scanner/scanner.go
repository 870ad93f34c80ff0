// Package scanner recognizes the attribute notation embedded in arbitrary
// markup and stylesheet text.
//
// A tag is any "<...>" region whose attributes are declarations, compositions
// or references rather than markup. Scan walks the whole buffer once and
// returns every closed tag with its attribute/value pairs classified, plus the
// lexical context at an optional query offset. Every editor feature reads this
// output; none of them scan on their own.
//
// The scanner never fails. Malformed or unterminated tags are abandoned and
// their opening "<" is treated as plain text.
package scanner

import (
	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/reader"
)

// Scan walks text and returns its tags in document order. watched names the
// attributes whose values are decomposed into fragments. query is the byte
// offset whose cursor context should be captured, or NoQuery.
func Scan(text string, watched []string, query int) *Result {
	res := &Result{Tags: []*TagRange{}}

	r := reader.New(text)
	outsideStart := mark{}

	for !r.EOF() {
		if !opensTag(r) {
			r.Advance()
			continue
		}

		start := markStart(r)
		attempt := newTagScan(r, watched, query)

		if !attempt.run() {
			r.Advance()
			continue
		}

		res.Cursor.merge(attempt.cursor)

		res.Outside = append(res.Outside, scanOutsideFragments(text, spanOf(outsideStart, start))...)

		end := markEnd(r)
		res.Tags = append(res.Tags, &TagRange{
			Span:      spanOf(start, end),
			Variables: map[string]string{},
			Cache:     attempt.cache,
		})

		r.Advance()
		outsideStart = markStart(r)
	}

	res.Outside = append(res.Outside, scanOutsideFragments(text, spanOf(outsideStart, markStart(r)))...)

	return res
}

// Gaps returns the text segments that lie between tags, in order. The
// segments and the tag spans together cover the whole buffer.
func (r *Result) Gaps(text string) []position.Span {
	var (
		gaps []position.Span
		prev = position.Span{}
	)
	for _, tag := range r.Tags {
		if tag.Span.StartOffset > prev.EndOffset {
			gaps = append(gaps, position.NewSpan(prev.End, prev.EndOffset, tag.Span.Start, tag.Span.StartOffset))
		}
		prev = tag.Span
	}
	if prev.EndOffset < len(text) {
		gaps = append(gaps, position.NewSpan(prev.End, prev.EndOffset, position.PlaceOf(text, len(text)), len(text)))
	}
	return gaps
}
