package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/tagsense/pkg/position"
)

func TestPlaceOf(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   position.Place
	}{
		{
			name:   "empty text",
			text:   "",
			offset: 0,
			want:   position.Place{Line: 0, Character: 0},
		},
		{
			name:   "single line, middle position",
			text:   "Hello, World!",
			offset: 7,
			want:   position.Place{Line: 0, Character: 7},
		},
		{
			name:   "multiple lines, second line",
			text:   "Hello\nWorld\nTest zzz",
			offset: 8,
			want:   position.Place{Line: 1, Character: 2},
		},
		{
			name:   "right after a newline",
			text:   "ab\ncd",
			offset: 3,
			want:   position.Place{Line: 1, Character: 0},
		},
		{
			name:   "multibyte runes count once",
			text:   "héllo",
			offset: 3,
			want:   position.Place{Line: 0, Character: 2},
		},
		{
			name:   "offset past end is clamped",
			text:   "abc",
			offset: 10,
			want:   position.Place{Line: 0, Character: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, position.PlaceOf(tt.text, tt.offset))
		})
	}
}

func TestOffsetOf(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		place position.Place
		want  int
	}{
		{"origin", "abc", position.Place{}, 0},
		{"second line", "ab\ncd\nef", position.Place{Line: 1, Character: 1}, 4},
		{"character past line end stops at break", "ab\ncd", position.Place{Line: 0, Character: 9}, 2},
		{"line past end", "ab", position.Place{Line: 4, Character: 0}, 2},
		{"multibyte", "héllo", position.Place{Line: 0, Character: 2}, 3},
		{"empty last line", "ab\ncd\n", position.Place{Line: 2, Character: 3}, 6},
		{"third line after multibyte", "é\n\nx", position.Place{Line: 2, Character: 1}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, position.OffsetOf(tt.text, tt.place))
		})
	}
}

func TestOffsetOfRoundTrip(t *testing.T) {
	text := "<a\n  x={\n   y }>\nplain"
	for offset := 0; offset <= len(text); offset++ {
		assert.Equal(t, offset, position.OffsetOf(text, position.PlaceOf(text, offset)), "offset %d", offset)
	}
}

func TestRangeContains(t *testing.T) {
	r := position.Range{
		Start: position.Place{Line: 1, Character: 2},
		End:   position.Place{Line: 3, Character: 0},
	}

	assert.True(t, r.Contains(position.Place{Line: 1, Character: 2}), "start is inside")
	assert.True(t, r.Contains(position.Place{Line: 2, Character: 40}), "middle line is inside")
	assert.True(t, r.Contains(position.Place{Line: 3, Character: 0}), "end is inside")
	assert.False(t, r.Contains(position.Place{Line: 1, Character: 1}))
	assert.False(t, r.Contains(position.Place{Line: 3, Character: 1}))
	assert.True(t, r.IsMultiLine())
}

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b position.Span
		want bool
	}{
		{
			name: "disjoint",
			a:    position.Span{StartOffset: 0, EndOffset: 3},
			b:    position.Span{StartOffset: 3, EndOffset: 5},
			want: false,
		},
		{
			name: "overlapping",
			a:    position.Span{StartOffset: 0, EndOffset: 4},
			b:    position.Span{StartOffset: 3, EndOffset: 5},
			want: true,
		},
		{
			name: "zero length inside",
			a:    position.Span{StartOffset: 4, EndOffset: 4},
			b:    position.Span{StartOffset: 3, EndOffset: 5},
			want: true,
		},
		{
			name: "zero length touching end",
			a:    position.Span{StartOffset: 0, EndOffset: 3},
			b:    position.Span{StartOffset: 3, EndOffset: 3},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
}

func TestSpanText(t *testing.T) {
	src := "<a x=1>"
	span := position.NewSpan(position.Place{Character: 3}, 3, position.Place{Character: 6}, 6)
	assert.Equal(t, "x=1", span.Text(src))
	assert.Equal(t, 3, span.Len())
	assert.Equal(t, "", position.Span{StartOffset: 5, EndOffset: 50}.Text(src))
}
