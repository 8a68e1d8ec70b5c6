package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAnchors(t *testing.T) {
	html := []byte(`<p><a href="/wiki/Go">Go</a> and <a href="https://example.com">ext</a> and <a>no href</a></p>`)

	anchors, err := ExtractAnchors(html)
	require.NoError(t, err)
	require.Len(t, anchors, 3)

	assert.Equal(t, Anchor{Href: "/wiki/Go", Text: "Go"}, anchors[0])
	assert.Equal(t, Anchor{Href: "https://example.com", Text: "ext"}, anchors[1])
	assert.Equal(t, "", anchors[2].Href)
}

func TestExtractAnchorsEmpty(t *testing.T) {
	anchors, err := ExtractAnchors([]byte("<p>nothing</p>"))
	require.NoError(t, err)
	assert.Empty(t, anchors)
}
