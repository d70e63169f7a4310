package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/statseg/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the statseg version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "statseg %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
