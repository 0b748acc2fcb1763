package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/reporting"
	"github.com/codewithboateng/lracheck/internal/storage"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-render a stored run as text, JSON and HTML",
		Args:  cobra.NoArgs,
		RunE:  runReport,
	}
	cmd.Flags().String("run", "latest", "Run ID, or 'latest'")
	cmd.Flags().String("out", "", "Output directory")
	cmd.Flags().String("db", "", "SQLite database path")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runID, _ := cmd.Flags().GetString("run")
	outDir := stringFlag(cmd, "out", cfg.Reporting.OutDir)

	db, err := openDB(stringFlag(cmd, "db", cfg.Database.DSN))
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := loadRun(db, runID)
	if err != nil {
		return err
	}
	jsonPath, err := reporting.WriteJSON(run.ID, outDir, &run)
	if err != nil {
		return failErr("write json report: %w", err)
	}
	htmlPath, err := reporting.WriteHTML(run.ID, outDir, &run)
	if err != nil {
		return failErr("write html report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := reporting.WriteText(out, &run); err != nil {
		return failErr("write report: %w", err)
	}
	fmt.Fprintf(out, "Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
	return nil
}

func loadRun(db *storage.DB, id string) (model.Run, error) {
	var (
		run model.Run
		err error
	)
	if id == "" || id == "latest" {
		run, err = db.LoadLatestRun()
	} else {
		run, err = db.LoadRun(id)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return run, failErr("run %q not found", id)
	}
	if err != nil {
		return run, failErr("load run %q: %w", id, err)
	}
	return run, nil
}
