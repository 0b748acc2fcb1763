package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/lracheck/internal/model"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lracheck version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lracheck %s (model %s)\n", version, model.Version)
		},
	}
}
