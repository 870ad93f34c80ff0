package reader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/reader"
)

func TestAdvanceTracksLines(t *testing.T) {
	r := reader.New("ab\ncd")

	want := []struct {
		char  rune
		place position.Place
	}{
		{'a', position.Place{Line: 0, Character: 0}},
		{'b', position.Place{Line: 0, Character: 1}},
		{'\n', position.Place{Line: 0, Character: 2}},
		{'c', position.Place{Line: 1, Character: 0}},
		{'d', position.Place{Line: 1, Character: 1}},
	}

	for i, w := range want {
		require.Equal(t, w.char, r.Char(), "char at step %d", i)
		require.Equal(t, w.place, r.Place(), "place at step %d", i)
		r.Advance()
	}

	assert.True(t, r.EOF())
	assert.Equal(t, reader.EOF, r.Char())
	assert.Equal(t, 5, r.Offset())
	assert.Equal(t, position.Place{Line: 1, Character: 2}, r.Place())
	assert.Equal(t, reader.EOF, r.Advance(), "advancing past the end is a no-op")
}

func TestEndOfNewlineStartsNextLine(t *testing.T) {
	r := reader.New("a\nb")
	r.Advance()
	assert.Equal(t, '\n', r.Char())
	assert.Equal(t, position.Place{Line: 1, Character: 0}, r.End())
}

func TestPeekAndPrev(t *testing.T) {
	r := reader.New("xyz")
	assert.Equal(t, reader.EOF, r.Prev())
	assert.Equal(t, 'y', r.Peek())

	r.Advance()
	r.Advance()
	assert.Equal(t, 'y', r.Prev())
	assert.Equal(t, reader.EOF, r.Peek())
}

func TestRetreatIsInverseOfAdvance(t *testing.T) {
	text := "<a\n  x=é{\n}>\n"
	r := reader.New(text)

	type snapshot struct {
		offset int
		char   rune
		place  position.Place
	}

	var forward []snapshot
	for !r.EOF() {
		forward = append(forward, snapshot{r.Offset(), r.Char(), r.Place()})
		r.Advance()
	}

	for i := len(forward) - 1; i >= 0; i-- {
		r.Retreat()
		got := snapshot{r.Offset(), r.Char(), r.Place()}
		require.Equal(t, forward[i], got, "retreat step %d", i)
	}

	assert.Equal(t, '<', r.Retreat(), "retreating at the start stays put")
	assert.Equal(t, 0, r.Offset())
}

func TestCheckpointRestore(t *testing.T) {
	r := reader.New("<a b\nc>")

	assert.False(t, r.Restore(), "nothing to restore yet")

	r.Checkpoint()
	require.True(t, r.HasCheckpoint())

	for i := 0; i < 5; i++ {
		r.Advance()
	}
	require.Equal(t, 'c', r.Char())
	require.Equal(t, position.Place{Line: 1, Character: 0}, r.Place())

	require.True(t, r.Restore())
	assert.Equal(t, '<', r.Char())
	assert.Equal(t, 0, r.Offset())
	assert.Equal(t, position.Place{}, r.Place())
	assert.False(t, r.HasCheckpoint(), "restore consumes the slot")
	assert.False(t, r.Restore())
}

func TestCheckpointKeepsOnlyOneSlot(t *testing.T) {
	r := reader.New("abcdef")
	r.Checkpoint()
	r.Advance()
	r.Advance()
	r.Checkpoint()
	r.Advance()

	require.True(t, r.Restore())
	assert.Equal(t, 'c', r.Char(), "the later checkpoint replaces the earlier one")

	r.Checkpoint()
	r.Discard()
	assert.False(t, r.Restore())
}

func TestNewAt(t *testing.T) {
	text := "line0\n  #{x}"
	r := reader.NewAt(text, 8, position.Place{Line: 1, Character: 2})
	assert.Equal(t, '#', r.Char())
	r.Advance()
	assert.Equal(t, '{', r.Char())
	assert.Equal(t, position.Place{Line: 1, Character: 3}, r.Place())
	assert.Equal(t, 10, r.NextOffset())
}
