package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/statseg/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "statseg",
	Short: "Segment statutory text into addressable subunits",
	Long: `statseg splits statutory section text into its hierarchical subunits
(subsections, paragraphs, subparagraphs, clauses, items), assigns each a
stable address and sort key, and verifies that the flat records reconstitute
the original text.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("statseg %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
