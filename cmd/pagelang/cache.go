package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrUltraEnder/pagelang"
	"github.com/MrUltraEnder/pagelang/cache"
)

// errNoSharedCache is returned when cache commands run against a backend
// that does not outlive the process.
var errNoSharedCache = errors.New("cache commands need the redis cache backend")

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import the translation cache",
	}

	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Write every cached translation to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := a.sharedCache(cmd.Context())
			if err != nil {
				return err
			}
			n, err := cache.NewExporter(tm).ExportToFile(cmd.Context(), args[0], map[string]string{
				"generator": pagelang.UserAgent(),
				"backend":   a.cfg.Cache.Backend,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Exported %d entries to %s\n", n, args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Load translations from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := a.sharedCache(cmd.Context())
			if err != nil {
				return err
			}
			res, err := cache.NewImporter(tm).ImportFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Imported %d entries (%d failed)\n", res.Imported, res.Failed)
			return nil
		},
	}

	cmd.AddCommand(export, imp)
	return cmd
}

func (a *app) sharedCache(ctx context.Context) (cache.Enumerable, error) {
	if a.cfg.Cache.Backend != "redis" {
		return nil, errNoSharedCache
	}
	return a.newCache(ctx)
}
