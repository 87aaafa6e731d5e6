package filters

import (
	"fmt"
	"maps"

	"github.com/mmichie/sitefilter/pkg/site"
)

// Conventional assign names.
const (
	AssignItem    = "item"
	AssignItemRep = "item_rep"
	AssignLayout  = "layout"
	AssignConfig  = "config"
	AssignContent = "content"
)

// Assigns are the named values a filter is constructed with.
type Assigns map[string]any

// Base holds the assigns of one filter instance. Concrete filters embed it.
//
// The names are bound once, in NewBase. Values are shared with the caller,
// not copied.
type Base struct {
	assigns Assigns
}

// NewBase binds assigns to a new Base.
func NewBase(assigns Assigns) Base {
	bound := make(Assigns, len(assigns))
	maps.Copy(bound, assigns)
	return Base{assigns: bound}
}

// Assigns returns all bound assigns.
func (b Base) Assigns() Assigns {
	if b.assigns == nil {
		return Assigns{}
	}
	return maps.Clone(b.assigns)
}

// Assign returns the value bound under name.
func (b Base) Assign(name string) (any, bool) {
	v, ok := b.assigns[name]
	return v, ok
}

// Item returns the item assign, or nil.
func (b Base) Item() *site.Item {
	item, _ := b.assigns[AssignItem].(*site.Item)
	return item
}

// ItemRep returns the item_rep assign, or nil.
func (b Base) ItemRep() *site.ItemRep {
	rep, _ := b.assigns[AssignItemRep].(*site.ItemRep)
	return rep
}

// Layout returns the layout assign, or nil.
func (b Base) Layout() *site.Layout {
	layout, _ := b.assigns[AssignLayout].(*site.Layout)
	return layout
}

// Config returns the site configuration assign, or nil.
func (b Base) Config() site.Config {
	switch cfg := b.assigns[AssignConfig].(type) {
	case site.Config:
		return cfg
	case map[string]any:
		return site.Config(cfg)
	}
	return nil
}

// Content returns the content assign that layouts wrap.
func (b Base) Content() string {
	s, _ := b.assigns[AssignContent].(string)
	return s
}

// Filename describes what is being filtered, for use in error messages.
func (b Base) Filename() string {
	if layout := b.Layout(); layout != nil {
		return fmt.Sprintf("layout %s", layout.Identifier)
	}
	if item := b.Item(); item != nil {
		repName := "?"
		if rep := b.ItemRep(); rep != nil {
			repName = rep.Name
		}
		return fmt.Sprintf("item %s (rep %s)", item.Identifier, repName)
	}
	return "?"
}
