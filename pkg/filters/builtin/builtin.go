// Package builtin wires every bundled filter into a registry.
package builtin

import (
	"github.com/mmichie/sitefilter/pkg/filters"
	"github.com/mmichie/sitefilter/pkg/filters/colorize"
	"github.com/mmichie/sitefilter/pkg/filters/keywords"
	"github.com/mmichie/sitefilter/pkg/filters/markdown"
	"github.com/mmichie/sitefilter/pkg/filters/minify"
	"github.com/mmichie/sitefilter/pkg/filters/relativize"
	"github.com/mmichie/sitefilter/pkg/filters/sanitize"
	"github.com/mmichie/sitefilter/pkg/filters/template"
	"github.com/mmichie/sitefilter/pkg/filters/terminal"
)

// RegisterAll registers the bundled filters on r
func RegisterAll(r *filters.Registry) {
	colorize.Register(r)
	keywords.Register(r)
	markdown.Register(r)
	minify.Register(r)
	relativize.Register(r)
	sanitize.Register(r)
	template.Register(r)
	terminal.Register(r)
}

// NewRegistry returns a registry holding the bundled filters
func NewRegistry() *filters.Registry {
	r := filters.NewRegistry()
	RegisterAll(r)
	return r
}
