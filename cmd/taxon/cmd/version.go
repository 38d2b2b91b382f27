package cmd

import (
	"fmt"

	"github.com/msto63/taxon/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info("taxon"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
