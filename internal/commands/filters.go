package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitFiltersCommand adds the filters listing command to rootCmd
func InitFiltersCommand(rootCmd *cobra.Command, env *Env) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "filters",
		Short: "List registered filter identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range env.Registry.Identifiers() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	})
}
