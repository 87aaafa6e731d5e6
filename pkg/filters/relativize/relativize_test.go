package relativize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmichie/sitefilter/pkg/filters"
	"github.com/mmichie/sitefilter/pkg/site"
)

func TestRelativePath(t *testing.T) {
	tests := []struct {
		from   string
		target string
		want   string
	}{
		{"/posts/hello/index.html", "/style.css", "../../style.css"},
		{"/posts/hello/index.html", "/posts/", "../"},
		{"/posts/hello/index.html", "/", "../../"},
		{"/posts/hello/index.html", "/posts/hello/img.png", "img.png"},
		{"/posts/hello/index.html", "/posts/other/", "../other/"},
		{"/index.html", "/about/", "about/"},
		{"/index.html", "/", "./"},
		{"/index.html", "/css/site.css", "css/site.css"},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativePath(tt.from, tt.target))
		})
	}
}

func repAssigns(path string) filters.Assigns {
	item := &site.Item{Identifier: "/posts/hello/"}
	return filters.Assigns{
		filters.AssignItem:    item,
		filters.AssignItemRep: &site.ItemRep{Item: item, Name: "default", Path: path},
	}
}

func TestRun_HTML(t *testing.T) {
	f := New(repAssigns("/posts/hello/index.html"))

	in := `<p><a href="/about/">About</a> <img src="/img/logo.png" alt="logo"/> ` +
		`<a href="https://example.com/">ext</a> <a href="//cdn.example.com/x.js">cdn</a> ` +
		`<a href="relative.html">rel</a></p>`

	out, err := f.Run(in, nil)
	require.NoError(t, err)

	assert.Contains(t, out, `<a href="../../about/">About</a>`)
	assert.Contains(t, out, `<img src="../../img/logo.png" alt="logo"/>`)
	assert.Contains(t, out, `<a href="https://example.com/">ext</a>`)
	assert.Contains(t, out, `<a href="//cdn.example.com/x.js">cdn</a>`)
	assert.Contains(t, out, `<a href="relative.html">rel</a>`)
}

func TestRun_HTMLUnchangedIsByteIdentical(t *testing.T) {
	f := New(repAssigns("/index.html"))

	in := "<!DOCTYPE html>\n<html><body><P CLASS='x'>Hi &amp; bye</P><!-- note --></body></html>"
	out, err := f.Run(in, nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRun_CSS(t *testing.T) {
	f := New(repAssigns("/css/site/index.css"))

	in := `body { background: url(/img/bg.png); } .a { background: url("/img/a.png"); } .b { background: url(//cdn/x.png); }`
	out, err := f.Run(in, filters.Params{"type": "css"})
	require.NoError(t, err)

	assert.Contains(t, out, `url(../../img/bg.png)`)
	assert.Contains(t, out, `url("../../img/a.png")`)
	assert.Contains(t, out, `url(//cdn/x.png)`)
}

func TestRun_MissingRep(t *testing.T) {
	_, err := New(nil).Run(`<a href="/x/">x</a>`, nil)
	assert.ErrorIs(t, err, filters.ErrMissingAssign)
}

func TestRun_UnknownType(t *testing.T) {
	_, err := New(repAssigns("/index.html")).Run("", filters.Params{"type": "xml"})
	assert.ErrorIs(t, err, filters.ErrInvalidParam)
}
