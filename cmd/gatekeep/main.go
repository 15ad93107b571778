// Package main is the gatekeep binary: the auth HTTP service plus its
// maintenance commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/gatekeep/internal/auth/app"
	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/spf13/cobra"
)

const appName = "gatekeep"

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	envFile    string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	serve := serveCmd(&flags)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Username/password authentication service",
		Long: `Gatekeep issues short-lived access tokens and single-use refresh
tokens for username/password accounts.

Without a subcommand it runs the HTTP service.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file, ignored when missing")

	cmd.AddCommand(serve, migrateCmd(&flags), pruneCmd(&flags), versionCmd())
	return cmd
}

func loadConfig(flags *globalFlags) (app.Config, error) {
	cfg, err := app.LoadConfig(flags.configPath, flags.envFile)
	if err != nil {
		return app.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return app.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, app.NewLogger(cfg))
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run(ctx)
		},
	}
}

func migrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			db, err := app.OpenStore(cmd.Context(), cfg, app.NewLogger(cfg))
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}

func pruneCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete refresh grants whose token has expired",
		Long: `Prune removes refresh grants past their expiry. It runs once and
exits; schedule it externally (cron, a Kubernetes CronJob).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg)

			db, err := app.OpenStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := service.NewHousekeepingService(db, logger).PruneExpiredGrants(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired grants\n", n)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, app.BuildVersion)
		},
	}
}
