package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmichie/sitefilter/pkg/filters"
	"github.com/mmichie/sitefilter/pkg/site"
)

func TestRegisterAll(t *testing.T) {
	r := NewRegistry()

	want := []string{
		"bluecloth", "bluemonday", "colorize_syntax", "compact", "erb",
		"glamour", "goldmark", "keywords", "markdown", "minify",
		"relativize_paths", "sanitize", "template", "terminal", "tfidf",
	}
	assert.Equal(t, want, r.Identifiers())
}

func TestChain(t *testing.T) {
	r := NewRegistry()
	item := &site.Item{Identifier: "/posts/hello/"}
	assigns := filters.Assigns{
		filters.AssignItem:    item,
		filters.AssignItemRep: &site.ItemRep{Item: item, Name: "default", Path: "/posts/hello/index.html"},
	}

	content := "> See [home](/)\n\n<script>alert(1)</script>"
	for _, name := range []string{"bluecloth", "sanitize", "relativize_paths"} {
		f, err := r.New(name, assigns)
		require.NoError(t, err)
		content, err = f.Run(content, nil)
		require.NoError(t, err)
	}

	assert.Contains(t, content, `<a href="../../" rel="nofollow">home</a>`)
	assert.NotContains(t, content, "script")
	assert.Contains(t, content, "<blockquote>\n    <p>")
}
