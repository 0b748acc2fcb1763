package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/lracheck/internal/api"
	"github.com/codewithboateng/lracheck/internal/metrics"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs, waivers and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (default from config server.addr)")
	cmd.Flags().String("db", "", "SQLite database path")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openDB(stringFlag(cmd, "db", cfg.Database.DSN))
	if err != nil {
		return err
	}
	defer db.Close()

	s := &api.Server{
		DB:              db,
		UserStore:       db,
		Metrics:         metrics.New(),
		Logger:          log,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		SessionDuration: time.Duration(cfg.Server.SessionHours) * time.Hour,
	}
	srv := &http.Server{
		Addr:              stringFlag(cmd, "addr", cfg.Server.Addr),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("api listening", "addr", srv.Addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return failErr("serve: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return failErr("shutdown: %w", err)
	}
	return nil
}
