package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitVersionCommand adds the version command to rootCmd
func InitVersionCommand(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of sitefilter",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sitefilter %s\n", Version)
		},
	})
}
