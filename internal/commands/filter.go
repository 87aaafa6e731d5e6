package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mmichie/sitefilter/pkg/filters"
	"github.com/mmichie/sitefilter/pkg/site"
)

const stdinIdentifier = "/stdin/"

type filterOptions struct {
	params     map[string]string
	identifier string
	rep        string
}

func newFilterCommand(env *Env) *cobra.Command {
	opts := &filterOptions{}
	cmd := &cobra.Command{
		Use:   "filter NAME [FILE]",
		Short: "Run a single filter over a file or stdin",
		Long: `Run the filter registered as NAME over FILE, or over stdin when FILE is
omitted or "-". Front matter in the input becomes the item's attributes.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, env, opts, args)
		},
	}
	cmd.Flags().StringToStringVarP(&opts.params, "param", "p", nil, "Filter parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.identifier, "identifier", "", "Item identifier exposed to the filter (default derived from FILE)")
	cmd.Flags().StringVar(&opts.rep, "rep", "default", "Item rep name exposed to the filter")
	return cmd
}

// InitFilterCommand adds the filter command to rootCmd
func InitFilterCommand(rootCmd *cobra.Command, env *Env) {
	rootCmd.AddCommand(newFilterCommand(env))
}

func runFilter(cmd *cobra.Command, env *Env, opts *filterOptions, args []string) error {
	name := args[0]
	factory, err := env.Registry.Find(name)
	if err != nil {
		return err
	}

	path := "-"
	if len(args) > 1 {
		path = args[1]
	}
	data, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	attrs, body, err := site.ParseFrontMatter(data)
	if err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}

	identifier := stdinIdentifier
	if path != "-" {
		identifier = site.IdentifierFor(filepath.Base(path))
	}
	if opts.identifier != "" {
		identifier = site.CleanIdentifier(opts.identifier)
	}

	siteCfg, err := env.siteConfig()
	if err != nil {
		return err
	}

	item := &site.Item{Identifier: identifier, Attributes: attrs, Content: body, SourcePath: path}
	rep := &site.ItemRep{Item: item, Name: opts.rep, Path: site.OutputPath(identifier, "")}
	assigns := filters.Assigns{
		filters.AssignItem:    item,
		filters.AssignItemRep: rep,
		filters.AssignConfig:  siteCfg,
	}

	params := filters.Params{}
	for k, v := range opts.params {
		params[k] = v
	}

	label := filters.NewBase(assigns).Filename()
	env.logger().Debug("applying filter", zap.String("filter", name), zap.String("target", label))

	out, err := factory(assigns).Run(body, params)
	if err != nil {
		return filters.Wrap(err, name, label)
	}

	w := cmd.OutOrStdout()
	fmt.Fprint(w, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(w)
	}
	return nil
}

func readSource(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}
