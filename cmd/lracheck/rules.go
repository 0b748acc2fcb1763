package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/rules"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the checks and the expected plain callback signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tSUMMARY")
			for _, r := range rules.List() {
				fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.Summary)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "KIND\tPLAIN SIGNATURE")
			for _, k := range model.AllKinds {
				fmt.Fprintf(tw, "%s\t%s\n", k, rules.Signature(k))
			}
			return tw.Flush()
		},
	}
}
