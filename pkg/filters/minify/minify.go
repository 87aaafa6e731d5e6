// Package minify removes insignificant whitespace from HTML content.
package minify

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/mmichie/sitefilter/pkg/filters"
)

var whitespaceRun = regexp.MustCompile(`[ \t\n\f\r]+`)

// elements whose body is kept verbatim
var preserved = map[string]bool{
	"pre":      true,
	"textarea": true,
	"script":   true,
	"style":    true,
}

// Filter compacts HTML.
type Filter struct {
	filters.Base
}

// New creates a minify filter.
func New(assigns filters.Assigns) filters.Filter {
	return &Filter{Base: filters.NewBase(assigns)}
}

// Register declares the minify filter on r.
func Register(r *filters.Registry) {
	r.Register(New, "minify", "compact")
}

// Run collapses whitespace outside preserved elements. With the
// "keep_tag_spacing" param whitespace between tags is reduced to a single
// space instead of removed.
func (f *Filter) Run(content string, params filters.Params) (string, error) {
	keepTagSpacing := params.Bool("keep_tag_spacing", false)

	z := html.NewTokenizer(strings.NewReader(content))
	var out strings.Builder
	depth := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				return strings.Trim(out.String(), " \t\n\f\r"), nil
			}
			return "", z.Err()
		}

		raw := string(z.Raw())
		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			if depth > 0 {
				out.WriteString(raw)
			} else {
				out.WriteString(whitespaceRun.ReplaceAllString(raw, " "))
			}
			if preserved[string(name)] {
				depth++
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if preserved[string(name)] && depth > 0 {
				depth--
			}
			if depth > 0 {
				out.WriteString(raw)
			} else {
				out.WriteString(whitespaceRun.ReplaceAllString(raw, " "))
			}

		case html.TextToken:
			if depth > 0 {
				out.WriteString(raw)
				continue
			}
			text := whitespaceRun.ReplaceAllString(raw, " ")
			if text == " " && !keepTagSpacing {
				continue
			}
			out.WriteString(text)

		default:
			if depth > 0 {
				out.WriteString(raw)
			} else {
				out.WriteString(whitespaceRun.ReplaceAllString(raw, " "))
			}
		}
	}
}
