package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierFor(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"index.md", "/"},
		{"about.md", "/about/"},
		{"posts/hello.md", "/posts/hello/"},
		{"posts/index.html", "/posts/"},
		{"posts/nested/deep.txt", "/posts/nested/deep/"},
		{"noext", "/noext/"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, IdentifierFor(tt.rel))
		})
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/about/index.html", OutputPath("/about/", ""))
	assert.Equal(t, "/index.html", OutputPath("/", ".html"))
	assert.Equal(t, "/feed/index.xml", OutputPath("/feed/", "xml"))
}

func TestCleanIdentifier(t *testing.T) {
	for in, want := range map[string]string{
		"":       "/",
		"/":      "/",
		"about":  "/about/",
		"/about": "/about/",
		" a/b/ ": "/a/b/",
	} {
		assert.Equal(t, want, CleanIdentifier(in), in)
	}
}

func TestItemAttr(t *testing.T) {
	item := &Item{Attributes: map[string]any{"title": "Hello"}}
	assert.Equal(t, "Hello", item.Attr("title"))
	assert.Nil(t, item.Attr("missing"))

	var nilItem *Item
	assert.Nil(t, nilItem.Attr("title"))
}

func TestParseFrontMatter(t *testing.T) {
	t.Run("with attributes", func(t *testing.T) {
		attrs, body, err := ParseFrontMatter([]byte("---\ntitle: Hello\ntags: [a, b]\n---\n# Body\n"))
		require.NoError(t, err)
		assert.Equal(t, "Hello", attrs["title"])
		assert.Equal(t, []any{"a", "b"}, attrs["tags"])
		assert.Equal(t, "# Body\n", body)
	})

	t.Run("without fence", func(t *testing.T) {
		attrs, body, err := ParseFrontMatter([]byte("plain text"))
		require.NoError(t, err)
		assert.Empty(t, attrs)
		assert.Equal(t, "plain text", body)
	})

	t.Run("empty header", func(t *testing.T) {
		attrs, body, err := ParseFrontMatter([]byte("---\n---\nbody"))
		require.NoError(t, err)
		assert.Empty(t, attrs)
		assert.Equal(t, "body", body)
	})

	t.Run("comment only header", func(t *testing.T) {
		attrs, body, err := ParseFrontMatter([]byte("---\n# draft, no attributes yet\n---\nbody"))
		require.NoError(t, err)
		assert.Empty(t, attrs)
		assert.Equal(t, "body", body)
	})

	t.Run("unterminated", func(t *testing.T) {
		_, _, err := ParseFrontMatter([]byte("---\ntitle: Hello\n"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, _, err := ParseFrontMatter([]byte("---\ntitle: [unclosed\n---\nbody"))
		assert.Error(t, err)
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadItems(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "---\ntitle: Home\n---\nWelcome")
	writeFile(t, filepath.Join(dir, "posts", "first.md"), "First post")
	writeFile(t, filepath.Join(dir, ".hidden"), "ignored")

	items, err := LoadItems(dir)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "/", items[0].Identifier)
	assert.Equal(t, "Home", items[0].Attr("title"))
	assert.Equal(t, "Welcome", items[0].Content)

	assert.Equal(t, "/posts/first/", items[1].Identifier)
	assert.Equal(t, "First post", items[1].Content)
	assert.Equal(t, filepath.Join(dir, "posts", "first.md"), items[1].SourcePath)
}

func TestLoadItems_CollectsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.md"), "ok")
	writeFile(t, filepath.Join(dir, "bad1.md"), "---\ntitle: [x\n---\n")
	writeFile(t, filepath.Join(dir, "bad2.md"), "---\nnever closed\n")

	items, err := LoadItems(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad1.md")
	assert.Contains(t, err.Error(), "bad2.md")
	require.Len(t, items, 1)
	assert.Equal(t, "/good/", items[0].Identifier)
}

func TestLoadItems_DuplicateIdentifiers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "about.md"), "from md")
	writeFile(t, filepath.Join(dir, "about", "index.md"), "from index")
	writeFile(t, filepath.Join(dir, "contact.md"), "contact")

	items, err := LoadItems(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	assert.Contains(t, err.Error(), filepath.Join(dir, "about.md"))
	assert.Contains(t, err.Error(), filepath.Join(dir, "about", "index.md"))

	require.Len(t, items, 2)
	assert.Equal(t, "/about/", items[0].Identifier)
	assert.Equal(t, "/contact/", items[1].Identifier)
}

func TestLoadLayouts_DuplicateIdentifiers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "default.html"), "a")
	writeFile(t, filepath.Join(dir, "default.tmpl"), "b")

	_, err := LoadLayouts(dir)
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
}

func TestLoadLayouts_MissingDir(t *testing.T) {
	layouts, err := LoadLayouts(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, layouts)
}
