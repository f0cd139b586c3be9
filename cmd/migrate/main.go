package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/logger"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the fintrack database schema and default data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(upCmd(), downCmd(), versionCmd(), seedCmd())
	return root
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(cmd.Context(), func(m *database.Manager) error {
				if err := m.Migrate(); err != nil {
					return fmt.Errorf("migration up failed: %w", err)
				}
				logger.Get().Info("Migrations applied successfully")
				return nil
			})
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [N]",
		Short: "Roll back the last N migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}
			return withMigrate(cmd.Context(), func(mig *migrate.Migrate) error {
				if err := mig.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration down failed: %w", err)
				}
				logger.Get().Infof("Rolled back %d migration(s)", steps)
				return nil
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrate(cmd.Context(), func(mig *migrate.Migrate) error {
				version, dirty, err := mig.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					logger.Get().Info("No migrations applied")
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to get version: %w", err)
				}
				logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	var catalogFile string
	cmd := &cobra.Command{
		Use:   "seed-defaults",
		Short: "Insert any missing default categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(cmd.Context(), func(m *database.Manager) error {
				path := catalogFile
				if path == "" {
					path = config.Get().DefaultCategoriesFile
				}
				catalog, err := services.LoadCatalog(path)
				if err != nil {
					return err
				}
				if err := m.Migrate(); err != nil {
					return fmt.Errorf("migration up failed: %w", err)
				}

				categories := services.NewCategoryService(store.NewGormStore(m.DB()), catalog)
				inserted, err := categories.SeedDefaultCategories(cmd.Context())
				if err != nil {
					return fmt.Errorf("seeding failed: %w", err)
				}
				logger.Get().Infof("Seeded %d default categor(ies) from a catalog of %d", inserted, len(catalog))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "JSON file with the default categories (overrides DEFAULT_CATEGORIES_FILE)")
	return cmd
}

// withManager opens the configured database, waits for it and runs fn.
func withManager(ctx context.Context, fn func(*database.Manager) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Get().Warnf("failed to close database: %v", err)
		}
	}()

	if err := m.WaitForDatabase(ctx); err != nil {
		return err
	}
	return fn(m)
}

// withMigrate runs fn against a golang-migrate instance. Only PostgreSQL
// databases are versioned by SQL migrations.
func withMigrate(ctx context.Context, fn func(*migrate.Migrate) error) error {
	return withManager(ctx, func(m *database.Manager) error {
		mig, err := m.NewMigrate()
		if err != nil {
			return err
		}
		defer database.CloseMigrate(mig)
		return fn(mig)
	})
}
