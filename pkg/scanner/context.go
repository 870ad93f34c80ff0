package scanner

import (
	"github.com/walteh/tagsense/pkg/reader"
)

// Analyze returns the cursor context at query without building any tracks.
// Completion feeds it text cut at the caret, so tags are usually unterminated
// and the context of aborted attempts counts too.
func Analyze(text string, query int) CursorContext {
	var ctx CursorContext

	r := reader.New(text)
	for !r.EOF() {
		if !opensTag(r) {
			r.Advance()
			continue
		}

		attempt := newTagScan(r, nil, query)
		attempt.captureOnly = true
		attempt.run()

		if attempt.reached {
			ctx.InTag = true
			ctx.merge(attempt.cursor)
			if !ctx.IsEmpty() {
				return ctx
			}
		}

		r.Advance()
	}

	return ctx
}
