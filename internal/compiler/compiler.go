// Package compiler turns the items of a site into output files by running
// each through the filter chain of the first rule that matches it.
package compiler

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmichie/sitefilter/internal/config"
	"github.com/mmichie/sitefilter/pkg/filters"
	"github.com/mmichie/sitefilter/pkg/site"
)

// DefaultRep is the rep name used when a rule does not set one
const DefaultRep = "default"

type rule struct {
	config.Rule
	glob glob.Glob
}

type layoutRule struct {
	config.LayoutRule
	glob glob.Glob
}

// Result lists what a compilation produced
type Result struct {
	// Written holds output paths relative to the output directory
	Written []string

	// Skipped holds identifiers of items no rule matched
	Skipped []string
}

// Compiler compiles a site according to its configuration
type Compiler struct {
	cfg         *config.Config
	registry    *filters.Registry
	logger      *zap.Logger
	rules       []rule
	layoutRules []layoutRule
}

// New prepares a compiler. The configuration must be valid and every filter
// it names must be registered in registry.
func New(cfg *config.Config, registry *filters.Registry, logger *zap.Logger) (*Compiler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Compiler{cfg: cfg, registry: registry, logger: logger}

	for _, r := range cfg.Rules {
		g, err := glob.Compile(r.Pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "compiling rule pattern %q", r.Pattern)
		}
		for _, spec := range r.Filters {
			if _, err := registry.Find(spec.Name); err != nil {
				return nil, errors.Wrapf(err, "rule %q", r.Pattern)
			}
		}
		c.rules = append(c.rules, rule{Rule: r, glob: g})
	}

	for _, r := range cfg.LayoutRules {
		g, err := glob.Compile(r.Pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "compiling layout rule pattern %q", r.Pattern)
		}
		if _, err := registry.Find(r.Filter); err != nil {
			return nil, errors.Wrapf(err, "layout rule %q", r.Pattern)
		}
		c.layoutRules = append(c.layoutRules, layoutRule{LayoutRule: r, glob: g})
	}

	return c, nil
}

// Match returns the first rule whose pattern matches identifier
func (c *Compiler) Match(identifier string) (config.Rule, bool) {
	for _, r := range c.rules {
		if r.glob.Match(identifier) {
			return r.Rule, true
		}
	}
	return config.Rule{}, false
}

func (c *Compiler) matchLayout(identifier string) (config.LayoutRule, bool) {
	for _, r := range c.layoutRules {
		if r.glob.Match(identifier) {
			return r.LayoutRule, true
		}
	}
	return config.LayoutRule{}, false
}

// Compile loads the site and writes every matched item to the output
// directory. Items are compiled concurrently; the first failure cancels the
// remaining work.
func (c *Compiler) Compile(ctx context.Context) (*Result, error) {
	items, err := site.LoadItems(c.cfg.ContentDir)
	if err != nil {
		return nil, errors.Wrap(err, "loading items")
	}
	layoutList, err := site.LoadLayouts(c.cfg.LayoutsDir)
	if err != nil {
		return nil, errors.Wrap(err, "loading layouts")
	}
	layouts := make(map[string]*site.Layout, len(layoutList))
	for _, l := range layoutList {
		layouts[l.Identifier] = l
	}

	result := &Result{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for _, item := range items {
		item := item
		if _, ok := c.Match(item.Identifier); !ok {
			c.logger.Debug("no rule matches item", zap.String("item", item.Identifier))
			result.Skipped = append(result.Skipped, item.Identifier)
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, content, err := c.CompileItem(item, layouts)
			if err != nil {
				return err
			}
			if err := c.write(rep, content); err != nil {
				return err
			}

			mu.Lock()
			result.Written = append(result.Written, rep.Path)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(result.Written)
	c.logger.Info("compiled site",
		zap.Int("written", len(result.Written)),
		zap.Int("skipped", len(result.Skipped)),
		zap.String("output", c.cfg.OutputDir))
	return result, nil
}

// CompileItem runs item through the filters of its rule and, if the rule
// names one, its layout. It returns the produced rep and content.
func (c *Compiler) CompileItem(item *site.Item, layouts map[string]*site.Layout) (*site.ItemRep, string, error) {
	r, ok := c.Match(item.Identifier)
	if !ok {
		return nil, "", errors.Errorf("no rule matches item %s", item.Identifier)
	}

	repName := r.Rep
	if repName == "" {
		repName = DefaultRep
	}
	rep := &site.ItemRep{
		Item: item,
		Name: repName,
		Path: site.OutputPath(item.Identifier, r.Extension),
	}

	cfg := site.Config(c.cfg.Site)
	assigns := filters.Assigns{
		filters.AssignItem:    item,
		filters.AssignItemRep: rep,
		filters.AssignConfig:  cfg,
	}

	content := item.Content
	for _, spec := range r.Filters {
		var err error
		content, err = c.Apply(spec.Name, filters.Params(spec.Params), content, assigns)
		if err != nil {
			return nil, "", err
		}
	}

	if r.Layout == "" {
		return rep, content, nil
	}

	layout, ok := layouts[site.CleanIdentifier(r.Layout)]
	if !ok {
		return nil, "", errors.Errorf("item %s: layout %s not found", item.Identifier, r.Layout)
	}
	lr, ok := c.matchLayout(layout.Identifier)
	if !ok {
		return nil, "", errors.Errorf("layout %s: no layout rule matches", layout.Identifier)
	}

	layoutAssigns := filters.Assigns{
		filters.AssignItem:    item,
		filters.AssignItemRep: rep,
		filters.AssignLayout:  layout,
		filters.AssignConfig:  cfg,
		filters.AssignContent: content,
	}
	content, err := c.Apply(lr.Filter, filters.Params(lr.Params), layout.Content, layoutAssigns)
	if err != nil {
		return nil, "", err
	}
	return rep, content, nil
}

// Apply builds the filter registered as name with assigns and runs it over
// content. Failures carry the filter name and a description of the content.
func (c *Compiler) Apply(name string, params filters.Params, content string, assigns filters.Assigns) (string, error) {
	f, err := c.registry.New(name, assigns)
	if err != nil {
		return "", err
	}

	label := filters.NewBase(assigns).Filename()
	c.logger.Debug("applying filter", zap.String("filter", name), zap.String("target", label))

	out, err := f.Run(content, params)
	if err != nil {
		return "", filters.Wrap(err, name, label)
	}
	return out, nil
}

func (c *Compiler) write(rep *site.ItemRep, content string) error {
	dest := filepath.Join(c.cfg.OutputDir, filepath.FromSlash(strings.TrimPrefix(rep.Path, "/")))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", rep.Path)
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", rep.Path)
	}
	c.logger.Debug("wrote item rep",
		zap.String("item", rep.Item.Identifier),
		zap.String("rep", rep.Name),
		zap.String("path", dest))
	return nil
}
