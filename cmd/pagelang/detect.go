package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrUltraEnder/pagelang"
	"github.com/MrUltraEnder/pagelang/state"
)

func newDetectCmd(a *app) *cobra.Command {
	var providerName string

	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Detect the language of a page",
		Long: `Detect sends a sample of the page's longer segments to the provider and
prints the language most samples agree on with enough confidence.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			input, _, err := a.readInput(path)
			if err != nil {
				return err
			}
			doc, err := a.newProcessor().Parse(input)
			if err != nil {
				return err
			}

			p, err := a.newProvider(providerName)
			if err != nil {
				return err
			}
			client := a.newClient(a.withRetries(p, a.cfg.Provider.Retries), nil)
			page := pagelang.NewPage(doc, client, state.NewMemoryStore(), a.pageOptions("", "")...)

			lang, err := page.DetectLanguage(cmd.Context())
			if errors.Is(err, pagelang.ErrDetectionInconclusive) {
				fmt.Fprintln(a.stdout, "unknown")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "%s (%s)\n", lang, pagelang.GetLanguageName(lang))
			return nil
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "", "Provider: google, openai or mock (default from config)")
	return cmd
}
