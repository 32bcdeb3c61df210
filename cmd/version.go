package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"budgetboard/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
