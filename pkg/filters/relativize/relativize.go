// Package relativize rewrites root-relative links into links relative to the
// output path of the item rep being compiled.
package relativize

import (
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/mmichie/sitefilter/pkg/filters"
)

// Content types accepted by the "type" param.
const (
	TypeHTML = "html"
	TypeCSS  = "css"
)

var linkAttributes = map[string]bool{
	"href":   true,
	"src":    true,
	"action": true,
	"poster": true,
}

var cssURLPattern = regexp.MustCompile(`url\((['"]?)(/[^/'")][^'")]*|/)(['"]?)\)`)

// Filter relativizes paths.
type Filter struct {
	filters.Base
}

// New creates a path relativizing filter.
func New(assigns filters.Assigns) filters.Filter {
	return &Filter{Base: filters.NewBase(assigns)}
}

// Register declares the relativize filter on r.
func Register(r *filters.Registry) {
	r.Register(New, "relativize_paths")
}

// Run rewrites paths in content. It needs the item_rep assign to know where
// the output will live.
func (f *Filter) Run(content string, params filters.Params) (string, error) {
	rep := f.ItemRep()
	if rep == nil || rep.Path == "" {
		return "", fmt.Errorf("%w: %s", filters.ErrMissingAssign, filters.AssignItemRep)
	}

	switch typ := params.String("type", TypeHTML); typ {
	case TypeHTML:
		return relativizeHTML(content, rep.Path)
	case TypeCSS:
		return cssURLPattern.ReplaceAllStringFunc(content, func(m string) string {
			parts := cssURLPattern.FindStringSubmatch(m)
			return "url(" + parts[1] + RelativePath(rep.Path, parts[2]) + parts[3] + ")"
		}), nil
	default:
		return "", fmt.Errorf("%w: unknown type %q", filters.ErrInvalidParam, typ)
	}
}

func relativizeHTML(content, from string) (string, error) {
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
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.WriteString(raw)
			continue
		}

		tok := z.Token()
		changed := false
		for i, attr := range tok.Attr {
			if linkAttributes[attr.Key] && isRootRelative(attr.Val) {
				tok.Attr[i].Val = RelativePath(from, attr.Val)
				changed = true
			}
		}
		if changed {
			out.WriteString(tok.String())
		} else {
			out.WriteString(raw)
		}
	}
}

func isRootRelative(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}

// RelativePath returns target expressed relative to the directory containing
// from. Both are root-relative; a trailing slash on target is kept.
func RelativePath(from, target string) string {
	fromDir := strings.Split(strings.Trim(path.Dir(from), "/"), "/")
	if len(fromDir) == 1 && fromDir[0] == "" {
		fromDir = nil
	}

	trailing := strings.HasSuffix(target, "/")
	targetParts := strings.Split(strings.Trim(target, "/"), "/")
	if len(targetParts) == 1 && targetParts[0] == "" {
		targetParts = nil
	}

	common := 0
	for common < len(fromDir) && common < len(targetParts) && fromDir[common] == targetParts[common] {
		common++
	}

	var parts []string
	for range fromDir[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[common:]...)

	rel := strings.Join(parts, "/")
	switch {
	case rel == "":
		return "./"
	case trailing:
		return rel + "/"
	}
	return rel
}
