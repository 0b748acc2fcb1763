package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/lracheck/internal/reporting"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare the findings of two stored runs",
		Args:  cobra.NoArgs,
		RunE:  runDiff,
	}
	cmd.Flags().String("base", "", "Base run ID")
	cmd.Flags().String("head", "latest", "Head run ID, or 'latest'")
	cmd.Flags().String("out", "", "Output directory")
	cmd.Flags().String("db", "", "SQLite database path")
	return cmd
}

func runDiff(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	baseID, _ := cmd.Flags().GetString("base")
	headID, _ := cmd.Flags().GetString("head")
	if baseID == "" {
		return usageErr("diff: --base is required")
	}

	db, err := openDB(stringFlag(cmd, "db", cfg.Database.DSN))
	if err != nil {
		return err
	}
	defer db.Close()

	base, err := loadRun(db, baseID)
	if err != nil {
		return err
	}
	head, err := loadRun(db, headID)
	if err != nil {
		return err
	}
	path, err := reporting.WriteDiffJSON(base.ID, head.ID, stringFlag(cmd, "out", cfg.Reporting.OutDir), &base, &head)
	if err != nil {
		return failErr("write diff: %w", err)
	}
	d := reporting.Diff(base.ID, head.ID, &base, &head)
	fmt.Fprintf(cmd.OutOrStdout(), "Diff %s -> %s: %d new, %d removed, %d changed\n  %s\n",
		base.ID, head.ID, d.Summary.NewCount, d.Summary.RemovedCount, d.Summary.ChangedCount, path)
	return nil
}
