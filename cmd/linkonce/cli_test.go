package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/linkonce/internal/config"
)

func TestHTMLPath(t *testing.T) {
	assert.Equal(t, "main_page.html", htmlPath("main_page.md"))
	assert.Equal(t, filepath.Join("guides", "setup.html"), htmlPath(filepath.Join("guides", "setup.markdown")))
	assert.Equal(t, "legacy.html", htmlPath("legacy.wiki"))
}

func TestRunRenderWritesStaticSite(t *testing.T) {
	contentDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "main_page.md"),
		[]byte("# Main\n\nSee {{#uniquelink:Other Page}} and again {{#uniquelink:Other Page}}.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "other_page.md"),
		[]byte("# Other\n"), 0o644))

	outDir := filepath.Join(t.TempDir(), "site")
	cfg := &config.Config{
		Source: config.SourceConfig{Type: config.SourceTypeDir, Path: contentDir},
		Wiki:   config.WikiConfig{Title: "Test", BasePath: "/wiki/"},
		Index:  config.IndexConfig{Path: ":memory:"},
		Output: config.OutputConfig{Directory: outDir},
	}

	require.NoError(t, runRender(cfg))

	data, err := os.ReadFile(filepath.Join(outDir, "main_page.html"))
	require.NoError(t, err)
	body := string(data)

	// First occurrence links, second is plain text.
	assert.Contains(t, body, `<a href="/wiki/Other_Page">Other Page</a>`)
	assert.Contains(t, body, "again Other Page.")

	_, err = os.Stat(filepath.Join(outDir, "other_page.html"))
	assert.NoError(t, err)
}

func TestRunRenderCleanRemovesStaleOutput(t *testing.T) {
	contentDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "page.md"), []byte("# Page\n"), 0o644))

	outDir := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	stale := filepath.Join(outDir, "stale.html")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	cfg := &config.Config{
		Source: config.SourceConfig{Type: config.SourceTypeDir, Path: contentDir},
		Wiki:   config.WikiConfig{BasePath: "/wiki/"},
		Index:  config.IndexConfig{Path: ":memory:"},
		Output: config.OutputConfig{Directory: outDir, Clean: true},
	}

	require.NoError(t, runRender(cfg))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outDir, "page.html"))
	assert.NoError(t, err)
}
