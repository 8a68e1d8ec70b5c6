package server

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReindexer struct {
	calls atomic.Int32
}

func (c *countingReindexer) Reindex(context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestContentWatcherTriggersReindexOnWrite(t *testing.T) {
	root := t.TempDir()
	target := &countingReindexer{}

	cw, err := NewContentWatcher(root, target, nil)
	require.NoError(t, err)
	cw.debounceTime = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cw.Start(ctx))
	defer cw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "page.md"), []byte("# Page\n"), 0o644))

	assert.Eventually(t, func() bool {
		return target.calls.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestContentWatcherIgnoresNonContentFiles(t *testing.T) {
	root := t.TempDir()
	target := &countingReindexer{}

	cw, err := NewContentWatcher(root, target, nil)
	require.NoError(t, err)
	cw.debounceTime = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cw.Start(ctx))
	defer cw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("scratch"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), target.calls.Load())
}

func TestIsContentFile(t *testing.T) {
	assert.True(t, isContentFile("docs/page.md"))
	assert.True(t, isContentFile("Page.Markdown"))
	assert.True(t, isContentFile("old.wiki"))
	assert.False(t, isContentFile("image.png"))
	assert.False(t, isContentFile("README"))
}
