package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MrUltraEnder/pagelang"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "%s %s\n", pagelang.Name, pagelang.FullVersion())
			fmt.Fprintf(a.stdout, "  %s\n", pagelang.Description)
			fmt.Fprintf(a.stdout, "  Commit:  %s\n", pagelang.GitCommit)
			fmt.Fprintf(a.stdout, "  Built:   %s\n", pagelang.BuildDate)
			fmt.Fprintf(a.stdout, "  Go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(a.stdout, "  Source:  %s\n", pagelang.Repository)
		},
	}
}
