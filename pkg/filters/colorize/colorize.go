// Package colorize highlights code blocks in HTML content using chroma.
package colorize

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"

	"github.com/mmichie/sitefilter/pkg/filters"
)

// DefaultStyle is used when no "style" param is given.
const DefaultStyle = "github"

// Class prefixes that name the language of a <code> element.
var languagePrefixes = []string{"language-", "lang-"}

// Filter replaces fenced code blocks with highlighted markup.
type Filter struct {
	filters.Base
}

// New creates a syntax colorizing filter.
func New(assigns filters.Assigns) filters.Filter {
	return &Filter{Base: filters.NewBase(assigns)}
}

// Register declares the colorize filter on r.
func Register(r *filters.Registry) {
	r.Register(New, "colorize_syntax")
}

// Run highlights every <pre><code class="language-X"> block in content. The
// "style" param selects the chroma style and "classes" emits CSS classes
// instead of inline styles. Blocks without a language, or whose code holds
// markup, are left alone.
func (f *Filter) Run(content string, params filters.Params) (string, error) {
	style := styles.Get(params.String("style", DefaultStyle))
	formatter := chromahtml.New(chromahtml.WithClasses(params.Bool("classes", false)))

	z := html.NewTokenizer(strings.NewReader(content))
	var out strings.Builder

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				return out.String(), nil
			}
			return "", z.Err()
		}

		raw := string(z.Raw())
		if tt != html.StartTagToken {
			out.WriteString(raw)
			continue
		}
		if name, _ := z.TagName(); string(name) != "pre" {
			out.WriteString(raw)
			continue
		}

		block, ok := readCodeBlock(z)
		if !ok {
			out.WriteString(raw)
			out.WriteString(block.raw)
			continue
		}
		highlighted, err := highlight(block.language, block.code, style, formatter)
		if err != nil {
			return "", err
		}
		out.WriteString(highlighted)
	}
}

type codeBlock struct {
	raw      string
	language string
	code     string
}

// readCodeBlock consumes the tokens after a <pre> start tag up to its end
// tag. It reports false when they are not a single <code> element with a
// language class; block.raw then holds everything consumed.
func readCodeBlock(z *html.Tokenizer) (codeBlock, bool) {
	var block codeBlock
	var raw, code strings.Builder
	inCode, closed := false, false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			block.raw = raw.String()
			return block, false
		}
		tokenRaw := string(z.Raw())
		raw.WriteString(tokenRaw)

		ok := true
		switch tt {
		case html.TextToken:
			if inCode {
				code.Write(z.Text())
			} else if strings.TrimSpace(tokenRaw) != "" {
				ok = false
			}
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "code" || inCode || closed || !hasAttr {
				ok = false
				break
			}
			block.language = languageOf(z)
			inCode = block.language != ""
			ok = inCode
		case html.EndTagToken:
			name, _ := z.TagName()
			switch {
			case inCode && string(name) == "code":
				inCode, closed = false, true
			case closed && string(name) == "pre":
				block.code = code.String()
				return block, true
			default:
				ok = false
			}
		default:
			ok = false
		}

		if !ok {
			block.raw = raw.String()
			return block, false
		}
	}
}

func languageOf(z *html.Tokenizer) string {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			for _, class := range strings.Fields(string(val)) {
				for _, prefix := range languagePrefixes {
					if lang, found := strings.CutPrefix(class, prefix); found && lang != "" {
						return lang
					}
				}
			}
		}
		if !more {
			return ""
		}
	}
}

func highlight(language, code string, style *chroma.Style, formatter *chromahtml.Formatter) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}
