package pageindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/linkonce/internal/source"
)

func openIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func samplePages() []source.Page {
	return []source.Page{
		{Title: "Main Page", RelativePath: "Main_Page.md"},
		{Title: "Help/Getting started", RelativePath: "help/Getting_started.md"},
	}
}

func TestRebuildAndExists(t *testing.T) {
	ix := openIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Rebuild(ctx, samplePages()))

	exists, err := ix.Exists(ctx, "Main Page")
	require.NoError(t, err)
	assert.True(t, exists)

	// Normalized lookup: underscores and leading case don't matter.
	exists, err = ix.Exists(ctx, "main_page")
	require.NoError(t, err)
	assert.True(t, exists)

	// Title matching is case-insensitive beyond normalization.
	exists, err = ix.Exists(ctx, "MAIN PAGE")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = ix.Exists(ctx, "No Such Page")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRebuildReplacesPreviousContent(t *testing.T) {
	ix := openIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Rebuild(ctx, samplePages()))
	require.NoError(t, ix.Rebuild(ctx, []source.Page{{Title: "Only Page", RelativePath: "Only_Page.md"}}))

	exists, err := ix.Exists(ctx, "Main Page")
	require.NoError(t, err)
	assert.False(t, exists, "old content must be gone after rebuild")

	n, err := ix.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLookup(t *testing.T) {
	ix := openIndex(t)
	ctx := context.Background()
	require.NoError(t, ix.Rebuild(ctx, samplePages()))

	rel, found, err := ix.Lookup(ctx, "Help/Getting_started")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "help/Getting_started.md", rel)

	_, found, err = ix.Lookup(ctx, "Absent")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpenFileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	ix, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, ix.Rebuild(context.Background(), samplePages()))
	require.NoError(t, ix.Close())

	// Titles persist across opens.
	ix, err = Open(path)
	require.NoError(t, err)
	defer ix.Close()

	exists, err := ix.Exists(context.Background(), "Main Page")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEmptyIndex(t *testing.T) {
	ix := openIndex(t)

	exists, err := ix.Exists(context.Background(), "Anything")
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := ix.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
