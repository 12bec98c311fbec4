package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/server/config"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sumdays/internal/server/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	loadConfig     = config.FromEnv
	openDB         = repomanager.OpenPostgres
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "sumdaysctl",
		Short:         "Operator tool for the Sumdays sync server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newTokenCmd(), newMigrateCmd())
	return root
}

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{Use: "token", Short: "Access token operations"}

	var (
		userID   string
		secret   string
		validity time.Duration
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign an access token for a user",
		Long: "Sign an access token for a user. Without --user a fresh id is generated; " +
			"the user row is provisioned by the server on the first sync.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("secret") {
				cfg.SecretKey = secret
			}
			if cmd.Flags().Changed("validity") {
				cfg.TokenValidityDuration = validity
			}
			if userID == "" {
				userID = uuid.NewString()
			}

			us := services.NewUserService(nil, nil, cfg.SecretKey, cfg.TokenValidityDuration)
			token, err := us.IssueToken(userID)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "user:  %s\ntoken: %s\n", userID, token)
			return nil
		},
	}
	issueCmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (generated when empty)")
	issueCmd.Flags().StringVarP(&secret, "secret", "s", "", "JWT secret (defaults to SUMDAYS_SECRET_KEY)")
	issueCmd.Flags().DurationVarP(&validity, "validity", "t", 0, "Token lifetime, 0 for no expiry (defaults to SUMDAYS_TOKEN_VALIDITY)")
	tokenCmd.AddCommand(issueCmd)

	return tokenCmd
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{Use: "migrate", Short: "Schema migrations"}

	var dsn string
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dsn") {
				cfg.DatabaseDSN = dsn
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			db, err := openDB(ctx, cfg.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("db init error: %w", err)
			}
			defer func(db *sql.DB) { _ = db.Close() }(db)

			if err := newRepoManager().RunMigrations(ctx, db); err != nil {
				return fmt.Errorf("migrations error: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	upCmd.Flags().StringVarP(&dsn, "dsn", "d", "", "PostgreSQL DSN (defaults to SUMDAYS_DATABASE_DSN)")
	migrateCmd.AddCommand(upCmd)

	return migrateCmd
}
