package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	patterns := []string{"site/**/*.html", "./styles/*.css"}

	assert.True(t, Matches(patterns, "site/index.html"))
	assert.True(t, Matches(patterns, "site/a/b/page.html"))
	assert.True(t, Matches(patterns, "styles/app.css"))
	assert.False(t, Matches(patterns, "site/app.css"))
	assert.False(t, Matches(nil, "site/index.html"))
}

func TestDirectories(t *testing.T) {
	got := directories([]string{"site/b/x.html", "site/a.html", "site/b/y.html", "top.html"})
	assert.Equal(t, []string{".", "site", "site/b"}, got)
}

func TestRelative(t *testing.T) {
	rel, ok := relative("/ws", "/ws/site/a.html")
	assert.True(t, ok)
	assert.Equal(t, "site/a.html", rel)
}
