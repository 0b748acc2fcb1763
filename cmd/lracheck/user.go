package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/lracheck/internal/security"
)

func newUserCmd() *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an API user",
		Args:  cobra.NoArgs,
		RunE:  runUserAdd,
	}
	add.Flags().String("username", "", "User name")
	add.Flags().String("password", "", "Password (min 8 characters)")
	add.Flags().String("role", "viewer", "admin or viewer")
	add.Flags().String("db", "", "SQLite database path")
	user.AddCommand(add)
	return user
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	name, _ := f.GetString("username")
	pw, _ := f.GetString("password")
	role, _ := f.GetString("role")
	if name == "" {
		return usageErr("user add: --username is required")
	}
	if err := security.ValidateRole(role); err != nil {
		return usageErr("user add: %v", err)
	}
	hash, err := security.HashPassword(pw)
	if err != nil {
		return usageErr("user add: %v", err)
	}

	db, err := openDB(stringFlag(cmd, "db", cfg.Database.DSN))
	if err != nil {
		return err
	}
	defer db.Close()
	id, err := db.CreateUser(name, hash, role)
	if err != nil {
		return failErr("user add: %w", err)
	}
	_ = db.LogAudit("cli", "user:create", name, map[string]any{"role": role})
	fmt.Fprintf(cmd.OutOrStdout(), "User %s created (id %d, role %s)\n", name, id, role)
	return nil
}
