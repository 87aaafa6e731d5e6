// Package markdown renders Markdown content to HTML with goldmark.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/mmichie/sitefilter/pkg/filters"
)

// Identifiers this package registers.
const (
	BlueClothIdentifier = "bluecloth"
	MarkdownIdentifier  = "markdown"
	GoldmarkIdentifier  = "goldmark"
)

// Filter converts Markdown to HTML.
type Filter struct {
	filters.Base
	bluecloth bool
}

// NewBlueCloth returns a filter whose output follows BlueCloth's layout:
// blockquote bodies are indented and trailing newlines are dropped.
func NewBlueCloth(assigns filters.Assigns) filters.Filter {
	return &Filter{Base: filters.NewBase(assigns), bluecloth: true}
}

// New returns a filter producing goldmark's output unchanged.
func New(assigns filters.Assigns) filters.Filter {
	return &Filter{Base: filters.NewBase(assigns)}
}

// Register declares the markdown filters on r.
func Register(r *filters.Registry) {
	r.Register(NewBlueCloth, BlueClothIdentifier)
	r.Register(New, MarkdownIdentifier, GoldmarkIdentifier)
}

// Run renders content. Recognised params are "smart" (typographic quotes and
// dashes), "hard_wraps" and "unsafe" (pass raw HTML through).
func (f *Filter) Run(content string, params filters.Params) (string, error) {
	md := newMarkdown(f.bluecloth, params)

	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}

	if f.bluecloth {
		return strings.TrimRight(buf.String(), "\n"), nil
	}
	return buf.String(), nil
}

func newMarkdown(bluecloth bool, params filters.Params) goldmark.Markdown {
	exts := []goldmark.Extender{
		extension.GFM,
		extension.DefinitionList,
		extension.Footnote,
	}
	if params.Bool("smart", false) {
		exts = append(exts, extension.Typographer)
	}

	rendererOpts := []renderer.Option{}
	if params.Bool("hard_wraps", false) {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if params.Bool("unsafe", false) {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	var bq *blockquoteRenderer
	if bluecloth {
		bq = &blockquoteRenderer{}
		rendererOpts = append(rendererOpts,
			renderer.WithNodeRenderers(util.Prioritized(bq, 100)))
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	if bq != nil {
		bq.inner = md.Renderer()
	}
	return md
}

const blockquoteIndent = "    "

// blockquoteRenderer replaces goldmark's blockquote output with an indented
// body, rendering each child through inner.
type blockquoteRenderer struct {
	inner renderer.Renderer
}

func (r *blockquoteRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
}

func (r *blockquoteRenderer) renderBlockquote(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<blockquote>\n")
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var buf bytes.Buffer
		if err := r.inner.Render(&buf, source, c); err != nil {
			return ast.WalkStop, err
		}
		_, _ = w.WriteString(indent(buf.String()))
	}
	_, _ = w.WriteString("</blockquote>\n")

	return ast.WalkSkipChildren, nil
}

// indent prefixes every non-empty line with blockquoteIndent, except lines
// inside a <pre> element whose text must stay verbatim.
func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var out strings.Builder
	inPre := false
	for _, line := range lines {
		if line == "" {
			continue
		}
		if !inPre && strings.TrimSpace(line) != "" {
			out.WriteString(blockquoteIndent)
		}
		out.WriteString(line)

		if strings.Contains(line, "<pre") {
			inPre = true
		}
		if strings.Contains(line, "</pre>") {
			inPre = false
		}
	}
	return out.String()
}
