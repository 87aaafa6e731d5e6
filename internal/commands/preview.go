package commands

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmichie/sitefilter/pkg/filters"
	"github.com/mmichie/sitefilter/pkg/filters/terminal"
	"github.com/mmichie/sitefilter/pkg/site"
)

type previewOptions struct {
	style string
	width int
}

func newPreviewCommand(env *Env) *cobra.Command {
	opts := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "preview IDENTIFIER",
		Short: "Render an item's Markdown in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, env, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.style, "style", terminal.AutoStyle, "Glamour style (auto, dark, light, notty, ...)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Wrap width (default terminal width)")
	return cmd
}

// InitPreviewCommand adds the preview command to rootCmd
func InitPreviewCommand(rootCmd *cobra.Command, env *Env) {
	rootCmd.AddCommand(newPreviewCommand(env))
}

func runPreview(cmd *cobra.Command, env *Env, opts *previewOptions, identifier string) error {
	cfg, err := env.LoadConfig()
	if err != nil {
		return err
	}
	items, err := site.LoadItems(cfg.ContentDir)
	if err != nil {
		return err
	}

	identifier = site.CleanIdentifier(identifier)
	var item *site.Item
	for _, it := range items {
		if it.Identifier == identifier {
			item = it
			break
		}
	}
	if item == nil {
		return errors.Errorf("no item with identifier %s", identifier)
	}

	width := opts.width
	if width <= 0 {
		width = terminalWidth()
	}

	assigns := filters.Assigns{
		filters.AssignItem:    item,
		filters.AssignItemRep: &site.ItemRep{Item: item, Name: "preview", Path: site.OutputPath(item.Identifier, "")},
		filters.AssignConfig:  site.Config(cfg.Site),
	}
	f, err := env.Registry.New("terminal", assigns)
	if err != nil {
		return err
	}
	out, err := f.Run(item.Content, filters.Params{"style": opts.style, "width": width})
	if err != nil {
		return filters.Wrap(err, "terminal", filters.NewBase(assigns).Filename())
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminal.DefaultWidth
	}
	return width
}
