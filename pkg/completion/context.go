package completion

import (
	"strings"

	"github.com/walteh/tagsense/pkg/scanner"
)

// CompletionContext holds information about the completion request context
type CompletionContext struct {
	// Offset is the caret offset the context was computed for.
	Offset int

	Cursor scanner.CursorContext

	// Fragment is the value typed so far without its opening quote.
	Fragment string
}

// NewCompletionContext analyzes content up to offset. The text after the
// caret is ignored so that a half typed tag is still understood.
func NewCompletionContext(content string, offset int) *CompletionContext {
	offset = max(0, min(offset, len(content)))

	cursor := scanner.Analyze(content[:offset], offset)

	return &CompletionContext{
		Offset:   offset,
		Cursor:   cursor,
		Fragment: trimOpeningQuote(cursor.Value),
	}
}

func trimOpeningQuote(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '"', '\'', '`':
		return value[1:]
	}
	return value
}

// InValue reports whether the caret is inside an attribute value.
func (c *CompletionContext) InValue() bool {
	return c.Cursor.Value != ""
}

// InAttribute reports whether the caret is on an attribute name.
func (c *CompletionContext) InAttribute() bool {
	return !c.InValue() && c.Cursor.Raw != ""
}

// Kind classifies the attribute under the caret.
func (c *CompletionContext) Kind(watched []string) scanner.Kind {
	return scanner.Classify(c.Cursor.Attribute, watched)
}

// EndsWithOperator reports whether the value ends right after an attach or
// assign operator.
func (c *CompletionContext) EndsWithOperator() bool {
	return strings.HasSuffix(c.Fragment, "~") || strings.HasSuffix(c.Fragment, "=")
}
