package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmichie/sitefilter/internal/commands"
	"github.com/mmichie/sitefilter/internal/config"
	"github.com/mmichie/sitefilter/internal/logging"
	"github.com/mmichie/sitefilter/pkg/filters/builtin"
)

var (
	cfgFile string
	verbose bool

	env = &commands.Env{Registry: builtin.NewRegistry()}
)

// RootCmd is the root command for sitefilter
var RootCmd = &cobra.Command{
	Use:   "sitefilter",
	Short: "sitefilter compiles a site through pluggable text filters",
	Long: `sitefilter runs site content through chains of named filters (Markdown,
sanitizing, syntax highlighting, layouts and more) as configured in
sitefilter.yaml, and writes the results to the output directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(logging.Options{
			Level:   viper.GetString("log_level"),
			Format:  viper.GetString("log_format"),
			Verbose: viper.GetBool("verbose"),
		})
		if err != nil {
			return err
		}
		env.Logger = logger
		env.ConfigFile = cfgFile
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if env.Logger != nil {
			_ = env.Logger.Sync()
		}
	},
}

func Execute() error {
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "site config file")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))

	commands.InitAll(RootCmd, env)
}

// initConfig reads the logging settings from the site config. A missing
// file is fine here; commands that need the site report it themselves.
func initConfig() {
	viper.SetDefault("log_level", config.LogLevelInfo)
	viper.SetDefault("log_format", config.LogFormatConsole)

	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
