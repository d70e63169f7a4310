package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dgallion1/statseg/internal/citation"
	"github.com/dgallion1/statseg/internal/hierarchy"
	"github.com/dgallion1/statseg/internal/source"
)

var (
	// markerStyle for subunit labels
	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	// dimStyle for sort keys and metadata
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for a passing verification
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for a failing verification
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

var sectionID string
var jsonOutput bool

var segmentCmd = &cobra.Command{
	Use:   "segment FILE",
	Short: "Segment one section file and print its subunits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		ex, err := source.ForFile(filename)
		if err != nil {
			return err
		}

		f, err := os.Open(filename)
		if err != nil {
			return err
		}
		defer f.Close()

		text, err := ex.Extract(f, filename)
		if err != nil {
			return fmt.Errorf("extract %s: %w", filename, err)
		}

		id := sectionID
		if id == "" {
			base := filepath.Base(filename)
			id = strings.TrimSuffix(base, filepath.Ext(base))
		}

		cited := citation.Tokenize(text)
		res := hierarchy.Segment(id, cited.Text)
		vr := hierarchy.Verify(res.SectionText, res.Records, cited.Text, hierarchy.DefaultMaxExpandDepth)

		for i := range res.Records {
			res.Records[i].Text = citation.Expand(res.Records[i].Text, cited.Refs)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"section_id":   id,
				"section_text": citation.Expand(res.SectionText, cited.Refs),
				"subunits":     res.Records,
				"verified":     vr.OK,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n",
			dimStyle.Render("Section:"), markerStyle.Render(id))
		fmt.Fprintf(out, "%s %d\n\n", dimStyle.Render("Subunits:"), len(res.Records))

		for _, rec := range res.Records {
			depth := strings.Count(rec.Marker, ".")
			fmt.Fprintf(out, "%s%s %s %s\n",
				strings.Repeat("  ", depth),
				markerStyle.Render(rec.Marker),
				dimStyle.Render("["+rec.SortKey+"]"),
				snippet(rec.Text, 70),
			)
		}

		fmt.Fprintln(out)
		if vr.OK {
			fmt.Fprintln(out, successStyle.Render("verified: records reconstitute the original text"))
		} else {
			fmt.Fprintln(out, errorStyle.Render("verification failed"))
			if vr.DiffIndex >= 0 {
				fmt.Fprintf(out, "%s %d\n", dimStyle.Render("first difference at:"), vr.DiffIndex)
				fmt.Fprintf(out, "%s %s\n", dimStyle.Render("context:"), vr.Context)
			}
			for _, tok := range vr.Unresolved {
				fmt.Fprintf(out, "%s %s\n", dimStyle.Render("unresolved token:"), tok)
			}
		}
		return nil
	},
}

// snippet collapses text to a single bounded line for terminal display.
func snippet(text string, limit int) string {
	s := strings.Join(strings.Fields(text), " ")
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}

func init() {
	segmentCmd.Flags().StringVarP(&sectionID, "section", "s", "", "Section identifier (default: file name without extension)")
	segmentCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full result as JSON")
	rootCmd.AddCommand(segmentCmd)
}
