package cssdata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/tagsense/pkg/cssdata"
)

func TestForEnvironment(t *testing.T) {
	browser := cssdata.ForEnvironment(cssdata.Browser)
	require.NotEmpty(t, browser.Properties)
	require.NotEmpty(t, browser.AtDirectives)
	require.NotEmpty(t, browser.PseudoClasses)
	require.NotEmpty(t, browser.PseudoElements)

	assert.Same(t, browser, cssdata.ForEnvironment("something-else"), "unknown environments use the browser data")
	assert.Empty(t, cssdata.ForEnvironment(cssdata.None).Properties)
}

func TestCatalog_Property(t *testing.T) {
	c := cssdata.ForEnvironment(cssdata.Browser)

	display, ok := c.Property("display")
	require.True(t, ok)
	assert.NotEmpty(t, display.Description)
	assert.True(t, display.HasRestriction("enum"))
	assert.False(t, display.HasRestriction("hashrule"))

	_, ok = c.Property("not-a-property")
	assert.False(t, ok)

	var nilCatalog *cssdata.Catalog
	_, ok = nilCatalog.Property("display")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	c, err := cssdata.Parse([]byte("properties:\n  - name: gap\n    restrictions: [hashrule]\n"))
	require.NoError(t, err)
	require.Len(t, c.Properties, 1)
	assert.True(t, c.Properties[0].HasRestriction("hashrule"))

	_, err = cssdata.Parse([]byte("properties: {"))
	require.Error(t, err)
}
