package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrUltraEnder/pagelang"
)

type stateOutput struct {
	Stored     bool   `json:"stored"`
	Language   string `json:"language,omitempty"`
	Name       string `json:"name,omitempty"`
	Translated bool   `json:"translated"`
}

func newStateCmd(a *app) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the saved page language",
	}
	cmd.PersistentFlags().StringVar(&session, "session", "cli", "Session id for the redis state backend")

	var jsonOut bool
	get := &cobra.Command{
		Use:   "get",
		Short: "Print the saved language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.newStore(cmd.Context(), session)
			if err != nil {
				return err
			}
			s, ok, err := store.Get(cmd.Context())
			if err != nil {
				return err
			}

			out := stateOutput{Stored: ok}
			if ok {
				out.Language = s.Lang
				out.Name = pagelang.GetLanguageName(s.Lang)
				out.Translated = s.Translated
			}

			if jsonOut {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			if !ok {
				fmt.Fprintln(a.stdout, "No language saved.")
				return nil
			}
			fmt.Fprintf(a.stdout, "Language:   %s (%s)\n", out.Language, out.Name)
			fmt.Fprintf(a.stdout, "Translated: %t\n", out.Translated)
			return nil
		},
	}
	get.Flags().BoolVar(&jsonOut, "json", false, "Output result as JSON")

	reset := &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.newStore(cmd.Context(), session)
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			a.progress("Saved language cleared.\n")
			return nil
		},
	}

	cmd.AddCommand(get, reset)
	return cmd
}
