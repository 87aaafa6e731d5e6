package site

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// ErrDuplicateIdentifier is reported when two source files map to the same
// identifier, e.g. about.md and about/index.md.
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

// ParseFrontMatter splits data into YAML attributes and body. Data that does
// not open with a "---" line has no attributes.
func ParseFrontMatter(data []byte) (map[string]any, string, error) {
	attrs := map[string]any{}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	if !strings.HasPrefix(text, frontMatterFence+"\n") {
		return attrs, text, nil
	}

	rest := text[len(frontMatterFence)+1:]
	var header, body string
	switch {
	case strings.HasPrefix(rest, frontMatterFence+"\n"):
		body = rest[len(frontMatterFence)+1:]
	case rest == frontMatterFence:
	default:
		end := strings.Index(rest, "\n"+frontMatterFence+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+frontMatterFence) {
				return nil, "", errors.New("front matter is not terminated")
			}
			header = strings.TrimSuffix(rest, "\n"+frontMatterFence)
		} else {
			header = rest[:end]
			body = rest[end+len(frontMatterFence)+2:]
		}
	}

	if strings.TrimSpace(header) != "" {
		// A header holding only comments decodes to io.EOF.
		err := yaml.NewDecoder(bytes.NewReader([]byte(header))).Decode(&attrs)
		if err != nil && err != io.EOF {
			return nil, "", errors.Wrap(err, "decoding front matter")
		}
	}
	return attrs, body, nil
}

// LoadItems reads every regular file below dir as an item. Hidden files are
// skipped. Per-file failures are collected and returned together.
func LoadItems(dir string) ([]*Item, error) {
	var items []*Item
	err := walk(dir, func(rel, full string, attrs map[string]any, body string) {
		items = append(items, &Item{
			Identifier: IdentifierFor(rel),
			Attributes: attrs,
			Content:    body,
			SourcePath: full,
		})
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].Identifier < items[j].Identifier })

	var result *multierror.Error
	if err != nil {
		result = multierror.Append(result, err)
	}
	kept := make([]*Item, 0, len(items))
	for i, item := range items {
		if i > 0 && item.Identifier == items[i-1].Identifier {
			result = multierror.Append(result, duplicateError(item.Identifier, items[i-1].SourcePath, item.SourcePath))
			continue
		}
		kept = append(kept, item)
	}
	return kept, result.ErrorOrNil()
}

// LoadLayouts reads every regular file below dir as a layout.
func LoadLayouts(dir string) ([]*Layout, error) {
	var layouts []*Layout
	err := walk(dir, func(rel, full string, attrs map[string]any, body string) {
		layouts = append(layouts, &Layout{
			Identifier: IdentifierFor(rel),
			Attributes: attrs,
			Content:    body,
			SourcePath: full,
		})
	})
	sort.SliceStable(layouts, func(i, j int) bool { return layouts[i].Identifier < layouts[j].Identifier })

	var result *multierror.Error
	if err != nil {
		result = multierror.Append(result, err)
	}
	kept := make([]*Layout, 0, len(layouts))
	for i, layout := range layouts {
		if i > 0 && layout.Identifier == layouts[i-1].Identifier {
			result = multierror.Append(result, duplicateError(layout.Identifier, layouts[i-1].SourcePath, layout.SourcePath))
			continue
		}
		kept = append(kept, layout)
	}
	return kept, result.ErrorOrNil()
}

func duplicateError(identifier, first, second string) error {
	return fmt.Errorf("%w %s: %s and %s", ErrDuplicateIdentifier, identifier, first, second)
}

func walk(dir string, add func(rel, full string, attrs map[string]any, body string)) error {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", dir)
	}

	var result *multierror.Error
	walkErr := filepath.WalkDir(dir, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			result = multierror.Append(result, err)
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && full != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		data, err := os.ReadFile(full)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "reading %s", full))
			return nil
		}
		attrs, body, err := ParseFrontMatter(data)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "parsing %s", full))
			return nil
		}
		rel, err := filepath.Rel(dir, full)
		if err != nil {
			result = multierror.Append(result, err)
			return nil
		}
		add(filepath.ToSlash(rel), full, attrs, body)
		return nil
	})
	if walkErr != nil {
		result = multierror.Append(result, walkErr)
	}
	return result.ErrorOrNil()
}
