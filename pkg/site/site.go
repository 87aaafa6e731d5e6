// Package site holds the content model that filters operate on: items, their
// output representations, layouts and site-wide configuration.
package site

import (
	"path"
	"strings"
)

// Item is a single unit of source content.
type Item struct {
	// Identifier is the slash-delimited identity of the item, e.g. "/about/"
	Identifier string

	// Attributes are the front matter values of the item
	Attributes map[string]any

	// Content is the raw, unfiltered body
	Content string

	// SourcePath is the file the item was read from, if any
	SourcePath string
}

// Attr returns the named attribute, or nil if it is not set.
func (i *Item) Attr(key string) any {
	if i == nil || i.Attributes == nil {
		return nil
	}
	return i.Attributes[key]
}

// ItemRep is one compiled output of an item.
type ItemRep struct {
	Item *Item

	// Name distinguishes multiple reps of the same item, "default" normally
	Name string

	// Path is the root-relative output path, e.g. "/about/index.html"
	Path string
}

// Layout is a template that wraps compiled item content.
type Layout struct {
	Identifier string
	Attributes map[string]any
	Content    string
	SourcePath string
}

// Attr returns the named layout attribute, or nil if it is not set.
func (l *Layout) Attr(key string) any {
	if l == nil || l.Attributes == nil {
		return nil
	}
	return l.Attributes[key]
}

// Config is the free-form site configuration handed to filters.
type Config map[string]any

// Get returns the value stored under key, or nil.
func (c Config) Get(key string) any {
	if c == nil {
		return nil
	}
	return c[key]
}

// IdentifierFor derives an identifier from a slash-separated path relative to
// the content root. Extensions are dropped and index files collapse into
// their directory.
func IdentifierFor(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(rel, "\\", "/")), "/")
	if ext := path.Ext(rel); ext != "" {
		rel = strings.TrimSuffix(rel, ext)
	}
	if rel == "index" {
		return "/"
	}
	rel = strings.TrimSuffix(rel, "/index")
	return "/" + rel + "/"
}

// CleanIdentifier normalizes a user-supplied identifier such as "about" or
// "/about" into "/about/".
func CleanIdentifier(id string) string {
	id = strings.Trim(strings.TrimSpace(id), "/")
	if id == "" {
		return "/"
	}
	return "/" + id + "/"
}

// OutputPath returns the output path for an identifier with the given
// extension, e.g. "/about/" -> "/about/index.html".
func OutputPath(identifier, ext string) string {
	if ext == "" {
		ext = ".html"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if !strings.HasSuffix(identifier, "/") {
		identifier += "/"
	}
	if !strings.HasPrefix(identifier, "/") {
		identifier = "/" + identifier
	}
	return identifier + "index" + ext
}
