package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const pageHTML = "<div class=\"=btn\" x&=\"a\">\n</div>"

func setupProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"tagsense.yaml": "attributes: [class]\nwatchfiles: [\"site/**/*.html\"]\n",
		"style.json": `{
			"symclasses": {"btn": 0},
			"symclassData": {"0": {"declarations": ["css/btn.css:2:0::2:3"], "summon": "<b></b>"}},
			"assignable": []
		}`,
		"site/page.html": pageHTML,
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScanCommand(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, "scan", "--root", root, "--manifest", "tagsense.yaml", "--format", "json")
	require.NoError(t, err)

	var results []struct {
		Path   string `json:"path"`
		Result struct {
			Tags []json.RawMessage `json:"tags"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "site/page.html", results[0].Path)
	assert.Len(t, results[0].Result.Tags, 2)
}

func TestScanCommand_Text(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, "scan", "--root", root, "--manifest", "tagsense.yaml", "site/*.html")
	require.NoError(t, err)
	assert.Contains(t, out, "site/page.html: 2 tags")
	assert.Contains(t, out, "watched")
}

func TestScanCommand_NoMatches(t *testing.T) {
	root := setupProject(t)

	_, err := execute(t, "scan", "--root", root, "nothing/*.html")
	require.Error(t, err)
}

func TestDiagnosticsCommand(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, "diagnostics", "--root", root, "--manifest", "tagsense.yaml", "--style-manifest", "style.json")
	require.NoError(t, err)
	assert.Contains(t, out, "site/page.html:1:1: error: Symclass missing in declaration scope.")

	_, err = execute(t, "diagnostics", "--root", root, "--manifest", "tagsense.yaml", "--fail")
	require.Error(t, err)

	out, err = execute(t, "diagnostics", "--root", root, "--manifest", "tagsense.yaml", "--format", "yaml")
	require.NoError(t, err)
	var parsed []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "site/page.html", parsed[0]["path"])
}

func TestCompleteCommand(t *testing.T) {
	root := setupProject(t)
	offset := strings.Index(pageHTML, "btn") + 2

	out, err := execute(t, "complete", "--root", root, "--manifest", "tagsense.yaml", "--style-manifest", "style.json",
		"--offset", strconv.Itoa(offset), "--format", "json", "site/page.html")
	require.NoError(t, err)

	var items []struct {
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "btn", items[0].Label)

	_, err = execute(t, "complete", "--root", root, "site/page.html")
	require.Error(t, err, "a caret is required")
}

func TestDefinitionCommand(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, "definition", "--root", root, "--manifest", "tagsense.yaml", "--style-manifest", "style.json",
		"--line", "0", "--character", strconv.Itoa(strings.Index(pageHTML, "btn")+1), "site/page.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "css/btn.css")+":2:0\n", out)
}

func TestSummonCommand_Write(t *testing.T) {
	root := setupProject(t)

	_, err := execute(t, "summon", "--root", root, "--manifest", "tagsense.yaml", "--style-manifest", "style.json",
		"--offset", strconv.Itoa(strings.Index(pageHTML, "btn")), "--length", "3", "--write", "site/page.html")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "site/page.html"))
	require.NoError(t, err)
	assert.Equal(t, "<div class=\"=btn\" x&=\"a\">\n<b></b>\n</div>", string(data))
}

func TestSummonCommand_Diff(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, "summon", "--root", root, "--manifest", "tagsense.yaml", "--style-manifest", "style.json",
		"--offset", strconv.Itoa(strings.Index(pageHTML, "btn")), "--diff", "site/page.html")
	require.NoError(t, err)
	assert.Contains(t, out, "➕<b></b>")

	data, err := os.ReadFile(filepath.Join(root, "site/page.html"))
	require.NoError(t, err)
	assert.Equal(t, pageHTML, string(data))
}

func TestFoldAndDecorateCommands(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, "fold", "--root", root, "--format", "json", "site/page.html")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	out, err = execute(t, "decorate", "--root", root, "--manifest", "tagsense.yaml", "--style", "attribute", "site/page.html")
	require.NoError(t, err)
	assert.Contains(t, out, "attribute")
}

func TestUnknownFormat(t *testing.T) {
	root := setupProject(t)

	_, err := execute(t, "fold", "--root", root, "--format", "toml", "site/page.html")
	require.Error(t, err)
}
