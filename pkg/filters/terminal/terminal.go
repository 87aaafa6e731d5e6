// Package terminal renders Markdown for display in a terminal using glamour.
package terminal

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/mmichie/sitefilter/pkg/filters"
)

// Defaults for the "style" and "width" params.
const (
	DefaultStyle = styles.NoTTYStyle
	DefaultWidth = 80

	// AutoStyle picks a dark or light style from the terminal background
	AutoStyle = "auto"
)

// Filter renders Markdown as styled terminal text.
type Filter struct {
	filters.Base
}

// New creates a terminal rendering filter.
func New(assigns filters.Assigns) filters.Filter {
	return &Filter{Base: filters.NewBase(assigns)}
}

// Register declares the terminal filter on r.
func Register(r *filters.Registry) {
	r.Register(New, "terminal", "glamour")
}

// Run renders content. The "style" param names a glamour standard style, or
// "auto"; "width" sets the word wrap column.
func (f *Filter) Run(content string, params filters.Params) (string, error) {
	width := params.Int("width", DefaultWidth)
	if width <= 0 {
		return "", fmt.Errorf("%w: width must be positive", filters.ErrInvalidParam)
	}

	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	}
	if style := params.String("style", DefaultStyle); style == AutoStyle {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		if _, ok := styles.DefaultStyles[style]; !ok {
			return "", fmt.Errorf("%w: unknown style %q", filters.ErrInvalidParam, style)
		}
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	return r.Render(content)
}
