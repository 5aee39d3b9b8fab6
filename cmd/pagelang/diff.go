package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MrUltraEnder/pagelang"
)

// errChanged is returned by diff --check when the pages differ.
var errChanged = errors.New("page content changed")

type diffOutput struct {
	InputFile        string       `json:"input_file"`
	PreviousFile     string       `json:"previous_file"`
	Stats            diffStats    `json:"stats"`
	NeedsTranslation []string     `json:"needs_translation"`
	Added            []string     `json:"added,omitempty"`
	Removed          []string     `json:"removed,omitempty"`
	Modified         []diffChange `json:"modified,omitempty"`
}

type diffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

type diffChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

func newDiffCmd(a *app) *cobra.Command {
	var (
		jsonOut bool
		check   bool
	)

	cmd := &cobra.Command{
		Use:   "diff <previous> [current]",
		Short: "Show which segments changed between two versions of a page",
		Long: `Diff compares the text segments of two versions of a page and lists the
strings a translation pass would have to send to the provider. The current
version is read from stdin when omitted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldContent, oldName, err := a.readInput(args[0])
			if err != nil {
				return fmt.Errorf("reading previous version: %w", err)
			}
			current := ""
			if len(args) == 2 {
				current = args[1]
			}
			newContent, newName, err := a.readInput(current)
			if err != nil {
				return err
			}

			proc := a.newProcessor()
			oldDoc, err := proc.Parse(oldContent)
			if err != nil {
				return fmt.Errorf("parsing previous version: %w", err)
			}
			newDoc, err := proc.Parse(newContent)
			if err != nil {
				return fmt.Errorf("parsing current version: %w", err)
			}

			diff := pagelang.DiffSegmentsWithContext(oldDoc.Segments(), newDoc.Segments())
			if jsonOut {
				err = writeDiffJSON(a.stdout, diff, newName, oldName)
			} else {
				writeDiffText(a.stdout, diff, newName, oldName)
			}
			if err != nil {
				return err
			}

			if check && diff.HasChanges() {
				return errChanged
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output result as JSON")
	cmd.Flags().BoolVar(&check, "check", false, "Exit with an error when the pages differ")
	return cmd
}

func writeDiffJSON(w io.Writer, diff *pagelang.DiffResult, inputName, previousName string) error {
	stats := diff.Stats()
	out := diffOutput{
		InputFile:        inputName,
		PreviousFile:     filepath.Base(previousName),
		Stats:            diffStats{Added: stats.Added, Removed: stats.Removed, Modified: stats.Modified, Unchanged: stats.Unchanged},
		NeedsTranslation: []string{},
	}

	for _, s := range diff.NeedsTranslation() {
		out.NeedsTranslation = append(out.NeedsTranslation, s.Text)
	}
	for _, s := range diff.Added {
		out.Added = append(out.Added, s.Text)
	}
	for _, s := range diff.Removed {
		out.Removed = append(out.Removed, s.Text)
	}
	for _, m := range diff.Modified {
		out.Modified = append(out.Modified, diffChange{Old: m.Old.Text, New: m.New.Text})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeDiffText(w io.Writer, diff *pagelang.DiffResult, inputName, previousName string) {
	stats := diff.Stats()

	fmt.Fprintf(w, "Diff: %s vs %s\n\n", inputName, filepath.Base(previousName))
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(w, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(w, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(w, "  Modified:  %d\n\n", stats.Modified)

	if !diff.HasChanges() {
		fmt.Fprintf(w, "No changes detected. All translations are up to date.\n")
		return
	}

	fmt.Fprintf(w, "Needs translation: %d strings\n\n", len(diff.NeedsTranslation()))

	if len(diff.Added) > 0 {
		fmt.Fprintf(w, "Added:\n")
		for _, s := range diff.Added {
			fmt.Fprintf(w, "  + %q\n", truncate(s.Text, 50))
		}
		fmt.Fprintln(w)
	}

	if len(diff.Modified) > 0 {
		fmt.Fprintf(w, "Modified:\n")
		for _, m := range diff.Modified {
			fmt.Fprintf(w, "  ~ %q -> %q\n", truncate(m.Old.Text, 30), truncate(m.New.Text, 30))
		}
		fmt.Fprintln(w)
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(w, "Removed:\n")
		for _, s := range diff.Removed {
			fmt.Fprintf(w, "  - %q\n", truncate(s.Text, 50))
		}
		fmt.Fprintln(w)
	}
}
