package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/statseg/internal/config"
	"github.com/dgallion1/statseg/internal/uscode"
)

var fetchDest string
var fetchPage string
var fetchTitle string
var fetchSection string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and extract the US Code bulk XML",
	Long: `Fetch locates the bulk "all titles" XML archive on the US Code download
page, downloads it, and extracts it into the destination directory. With
--title and --print-section it also prints one section's plain text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.New(slog.NewTextHandler(os.Stderr, nil))
		client := uscode.NewClient(fetchPage, log)
		ctx := cmd.Context()

		url, err := client.BulkXMLURL(ctx)
		if err != nil {
			return err
		}
		log.Info("found bulk archive", "url", url)

		if err := os.MkdirAll(fetchDest, 0o755); err != nil {
			return err
		}
		zipPath := filepath.Join(fetchDest, "usc.zip")
		if err := client.Download(ctx, url, zipPath); err != nil {
			return err
		}
		log.Info("downloaded", "path", zipPath)

		if err := uscode.ExtractZip(zipPath, fetchDest); err != nil {
			return err
		}
		log.Info("extracted", "dir", fetchDest)

		if fetchTitle != "" && fetchSection != "" {
			text, err := uscode.SectionText(fetchDest, fetchTitle, fetchSection)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDest, "dest", "usc", "Destination directory for the extracted XML")
	fetchCmd.Flags().StringVar(&fetchPage, "page", config.Load().USCDownloadPage, "US Code download page URL")
	fetchCmd.Flags().StringVar(&fetchTitle, "title", "", "Title number for --print-section")
	fetchCmd.Flags().StringVar(&fetchSection, "print-section", "", "Print this section's text after extraction")
	rootCmd.AddCommand(fetchCmd)
}
