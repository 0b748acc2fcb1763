package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/lracheck/internal/shared"
	"github.com/codewithboateng/lracheck/internal/storage"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lracheck",
		Short: "Structural checker for LRA participant classes",
		Long: `lracheck validates the shape of long-running-action participants: termination
callbacks, marker cardinality and conflicts, plain signatures, resource verbs and
asynchronous completion handling. Findings are reported, persisted and diffable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to YAML config (optional)")

	root.AddCommand(
		newCheckCmd(),
		newReportCmd(),
		newDiffCmd(),
		newRulesCmd(),
		newServeCmd(),
		newUserCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads --config and installs the logger it describes.
func loadConfig(cmd *cobra.Command) (shared.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := shared.LoadConfig(path)
	if err != nil {
		return cfg, nil, usageErr("%v", err)
	}
	return cfg, shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level), nil
}

// stringFlag returns the flag value when set on the command line, else def.
func stringFlag(cmd *cobra.Command, name, def string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return def
}

func openDB(path string) (*storage.DB, error) {
	db, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, failErr("db open %s: %w", path, err)
	}
	if err := db.CreateSchema(); err != nil {
		_ = db.Close()
		return nil, failErr("db schema %s: %w", path, err)
	}
	return db, nil
}
