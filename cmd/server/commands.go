package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/app"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/config"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/db"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/logger"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/seed"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewRootCmd builds the CLI. Running it without a subcommand starts the server.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           app.ServiceName,
		Short:         "API REST para gerenciar alunos, áreas de cursos e matrículas",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", app.Version, app.GitCommit, app.BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())

	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			database, err := db.New(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close(database)

			if err := db.RunMigrations(ctx, database); err != nil {
				return err
			}
			log.InfoContext(ctx, "schema is up to date", "driver", cfg.Database.Driver)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo alunos, áreas de curso and matrículas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			database, err := db.New(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close(database)

			if err := db.RunMigrations(ctx, database); err != nil {
				return err
			}
			if reset {
				log.WarnContext(ctx, "removing all rows before seeding")
				if err := db.ResetTables(ctx, database); err != nil {
					return err
				}
			}

			_, err = seed.Run(ctx, database, log)
			return err
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Delete every row before seeding")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	application, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- application.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("server failed", "error", err)
		}
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited gracefully")
	return nil
}

// bootstrap loads the configuration and installs the default logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewWithServiceContext(logger.Options{Env: cfg.Env, Level: cfg.LogLevel}, app.ServiceName, app.Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(log)

	log.Info("config loaded", "env", cfg.Env)
	return cfg, log, nil
}
