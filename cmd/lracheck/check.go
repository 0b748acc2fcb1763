package main

import (
	"errors"
	"log/slog"
	"net"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/codewithboateng/lracheck/internal/catalog"
	"github.com/codewithboateng/lracheck/internal/checker"
	"github.com/codewithboateng/lracheck/internal/discovery"
	"github.com/codewithboateng/lracheck/internal/metrics"
	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/reporting"
	"github.com/codewithboateng/lracheck/internal/rules"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Discover LRA participants and validate them",
		Long: `Scans descriptor directories and zip/jar archives, validates every concrete
LRA participant class and prints one "[CODE] message" line per finding.
Exit status: 0 passed, 1 discovery failed, 2 usage error, 3 findings present.`,
		RunE: runCheck,
	}
	f := cmd.Flags()
	f.StringSlice("path", nil, "Descriptor directory or archive (repeatable)")
	f.Bool("fail-when-path-not-exist", false, "Fail instead of warning when a path is missing")
	f.Int("parallel", 0, "Validate this many classes concurrently (<=1 sequential)")
	f.StringSlice("disable", nil, "Error codes to skip (repeatable)")
	f.String("out", "", "Directory for JSON/HTML reports (empty = config reporting.out_dir)")
	f.String("db", "", "SQLite database path")
	f.Bool("no-db", false, "Do not persist the run or apply stored waivers")
	f.Bool("watch", false, "Re-run the check whenever a descriptor under a path changes")
	f.String("metrics-addr", "", "Serve Prometheus metrics for this process on addr (e.g. :9464)")
	return cmd
}

type checkOptions struct {
	paths       []string
	failMissing bool
	parallel    int
	disabled    []string
	outDir      string
	dbPath      string
	noDB        bool
	metrics     *metrics.Metrics
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()

	opts := checkOptions{
		failMissing: cfg.Analysis.FailWhenPathNotExist,
		parallel:    cfg.Analysis.Parallelism,
		disabled:    cfg.Analysis.DisabledRules,
		outDir:      stringFlag(cmd, "out", cfg.Reporting.OutDir),
		dbPath:      stringFlag(cmd, "db", cfg.Database.DSN),
	}
	opts.paths = append(opts.paths, args...)
	extra, _ := f.GetStringSlice("path")
	opts.paths = append(opts.paths, extra...)
	if len(opts.paths) == 0 {
		opts.paths = cfg.Analysis.Paths
	}
	if len(opts.paths) == 0 {
		return usageErr("check: at least one path (argument, --path or analysis.paths) is required")
	}
	if f.Changed("fail-when-path-not-exist") {
		opts.failMissing, _ = f.GetBool("fail-when-path-not-exist")
	}
	if f.Changed("parallel") {
		opts.parallel, _ = f.GetInt("parallel")
	}
	if f.Changed("disable") {
		opts.disabled, _ = f.GetStringSlice("disable")
	}
	opts.noDB, _ = f.GetBool("no-db")
	opts.metrics = metrics.New()

	if addr, _ := f.GetString("metrics-addr"); addr != "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return failErr("metrics listener: %w", err)
		}
		go serveMetrics(cmd.Context(), ln, opts.metrics, log)
	}

	if watch, _ := f.GetBool("watch"); watch {
		return watchLoop(cmd.Context(), opts.paths, log, func() {
			if err := checkOnce(cmd, opts, log); err != nil {
				var ee *exitError
				if !errors.As(err, &ee) || ee.code != exitFindings {
					log.Error("check failed", "err", err)
				}
			}
		})
	}
	return checkOnce(cmd, opts, log)
}

// checkOnce runs discovery and validation once, persists and renders the
// run, and maps the outcome to an exit code.
func checkOnce(cmd *cobra.Command, opts checkOptions, log *slog.Logger) error {
	started := time.Now().UTC()
	res, err := discovery.Discover(opts.paths, discovery.Options{FailWhenPathNotExist: opts.failMissing, Logger: log})
	if err != nil {
		return failErr("discovery failed: %w", err)
	}

	settings := rules.NewSettings(opts.disabled)
	cat := catalog.New()
	m := opts.metrics
	summaries, err := checker.Check(cmd.Context(), res.Classes, rules.NewEngine(settings), cat,
		checker.Options{Parallelism: opts.parallel, Metrics: m})
	if err != nil {
		return failErr("check: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return failErr("run id: %w", err)
	}
	run := &model.Run{
		ID:           "run-" + id.String(),
		StartedAt:    started,
		Sources:      res.Sources,
		ModelVersion: model.Version,
		Context: model.Context{
			Parallelism:          opts.parallel,
			FailWhenPathNotExist: opts.failMissing,
			DisabledRules:        settings.DisabledIDs(),
		},
		Classes:  summaries,
		Skipped:  res.Skipped,
		Findings: checker.ReportFindings(cat, opts.parallel),
	}

	if !opts.noDB {
		db, err := openDB(opts.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		waivers, err := db.ListWaivers(true)
		if err != nil {
			return failErr("load waivers: %w", err)
		}
		run.Findings, run.Waived = rules.ApplyWaivers(run.Findings, waivers)
		if err := db.SaveRun(run); err != nil {
			return failErr("save run: %w", err)
		}
	}
	m.ObserveRun(run.Passed())

	var jsonPath, htmlPath string
	if opts.outDir != "" {
		if jsonPath, err = reporting.WriteJSON(run.ID, opts.outDir, run); err != nil {
			return failErr("write json report: %w", err)
		}
		if htmlPath, err = reporting.WriteHTML(run.ID, opts.outDir, run); err != nil {
			return failErr("write html report: %w", err)
		}
	}

	log.Info("check complete",
		"run", run.ID,
		"classes", len(run.Classes),
		"skipped", len(run.Skipped),
		"findings", len(run.Findings),
		"waived", run.Waived,
		"json", jsonPath,
		"html", htmlPath,
		"db", dbLabel(opts.noDB, opts.dbPath),
	)

	if err := reporting.WriteText(cmd.OutOrStdout(), run); err != nil {
		return failErr("write report: %w", err)
	}
	if !run.Passed() {
		return &exitError{code: exitFindings}
	}
	return nil
}

func dbLabel(noDB bool, path string) string {
	if noDB {
		return ""
	}
	return filepath.Clean(path)
}
