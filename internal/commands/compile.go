package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmichie/sitefilter/internal/compiler"
	"github.com/mmichie/sitefilter/internal/watch"
)

type compileOptions struct {
	watch    bool
	debounce time.Duration
}

func newCompileCommand(env *Env) *cobra.Command {
	opts := &compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the site into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, env, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Recompile when content, layouts or the config file change")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "Quiet period before recompiling in watch mode")
	return cmd
}

// InitCompileCommand adds the compile command to rootCmd
func InitCompileCommand(rootCmd *cobra.Command, env *Env) {
	rootCmd.AddCommand(newCompileCommand(env))
}

func runCompile(cmd *cobra.Command, env *Env, opts *compileOptions) error {
	out := cmd.OutOrStdout()

	// The config is reloaded on every build so watch mode picks up rule edits.
	build := func(ctx context.Context) error {
		cfg, err := env.LoadConfig()
		if err != nil {
			return err
		}
		c, err := compiler.New(cfg, env.Registry, env.logger())
		if err != nil {
			return err
		}
		result, err := c.Compile(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "compiled %d item reps, skipped %d items\n", len(result.Written), len(result.Skipped))
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !opts.watch {
		return build(ctx)
	}

	cfg, err := env.LoadConfig()
	if err != nil {
		return err
	}
	var dirs []string
	for _, dir := range []string{cfg.ContentDir, cfg.LayoutsDir} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}

	return watch.Run(ctx, watch.Options{
		Dirs:     dirs,
		Files:    []string{env.configFile()},
		Debounce: opts.debounce,
		Logger:   env.logger(),
		Out:      out,
	}, build)
}
