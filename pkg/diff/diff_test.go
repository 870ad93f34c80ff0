package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/tagsense/pkg/diff"
)

func TestLines(t *testing.T) {
	assert.Empty(t, diff.Lines("same\n", "same\n"))

	got := diff.Lines("<div>\n</div>", "<div>\n<b></b>\n</div>")
	assert.Contains(t, got, "➕<b></b>")
	assert.NotContains(t, got, "➖")
	assert.Contains(t, got, " <div>")
}
