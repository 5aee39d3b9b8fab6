package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type extractOutput struct {
	InputFile    string           `json:"input_file"`
	SegmentCount int              `json:"segment_count"`
	Skipped      int              `json:"skipped"`
	Segments     []extractSegment `json:"segments"`
}

type extractSegment struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		jsonOut    bool
		ignoreTags string
	)

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "List the text segments of a page without translating",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			input, inputName, err := a.readInput(path)
			if err != nil {
				return err
			}
			doc, err := a.newProcessor(splitTerms(ignoreTags)...).Parse(input)
			if err != nil {
				return err
			}

			filter := a.newClient(nil, nil).Filter()
			out := extractOutput{InputFile: inputName}
			for _, seg := range doc.Segments() {
				s := extractSegment{ID: seg.ID, Text: seg.Text, Context: seg.Context, Skipped: filter.Skip(seg.Text)}
				if s.Skipped {
					out.Skipped++
				}
				out.Segments = append(out.Segments, s)
			}
			out.SegmentCount = len(out.Segments)

			if jsonOut {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Fprintf(a.stdout, "Extract: %s\n", inputName)
			fmt.Fprintf(a.stdout, "Found %d text segments (%d skipped):\n\n", out.SegmentCount, out.Skipped)
			for i, s := range out.Segments {
				marker := " "
				if s.Skipped {
					marker = "-"
				}
				fmt.Fprintf(a.stdout, "%3d.%s %q\n", i+1, marker, truncate(s.Text, 60))
				if s.Context != "" {
					fmt.Fprintf(a.stdout, "      Context: %s\n", s.Context)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output result as JSON")
	cmd.Flags().StringVar(&ignoreTags, "ignore-tags", "", "Comma-separated extra elements whose text is skipped")
	return cmd
}
