// Package template evaluates content as a Go text/template with the filter's
// assigns as data. It is the usual filter for layouts.
package template

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/mmichie/sitefilter/pkg/filters"
)

// Filter executes content as a template.
type Filter struct {
	filters.Base
}

// New creates a template filter.
func New(assigns filters.Assigns) filters.Filter {
	return &Filter{Base: filters.NewBase(assigns)}
}

// Register declares the template filter on r.
func Register(r *filters.Registry) {
	r.Register(New, "template", "erb")
}

// Run parses content and executes it. Every assign is available by name
// (".item", ".layout", ".config" ...) and the params under ".params".
// Layouts call {{ yield }} to insert the content they wrap.
func (f *Filter) Run(content string, params filters.Params) (string, error) {
	name := f.Filename()

	tmpl := template.New(name).Funcs(template.FuncMap{
		"yield": f.Content,
	})
	if left, right := params.String("left_delim", ""), params.String("right_delim", ""); left != "" && right != "" {
		tmpl = tmpl.Delims(left, right)
	}

	tmpl, err := tmpl.Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	data := map[string]any(f.Assigns())
	data["params"] = params

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return result.String(), nil
}
