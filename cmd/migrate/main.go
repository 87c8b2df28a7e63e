package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	calendarapp "github.com/PLAYZONE-UA/zlota-raczka/internal/application/calendar"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/logger"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/migration"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

// appFs backs create and list; tests swap in a memory filesystem
var appFs afero.Fs = afero.NewOsFs()

var (
	migrationsPath string
	logLevel       string
	log            *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tool of the booking backend",
		Long: `Applies the postgres schema migrations and seeds the booking calendar.

Database settings come from config.toml and ZR_DATABASE_* environment variables.
Without --path the migrations embedded in the binary are used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			log, err = logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: embedded)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(_ []string, m *migration.Migrator) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(_ []string, m *migration.Migrator) error {
				return m.Down()
			}),
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations (positive=up, negative=down)",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(args []string, m *migration.Migrator) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate to a specific version",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(args []string, m *migration.Migrator) error {
				version, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version number %q", args[0])
				}
				return m.GoTo(uint(version))
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show current migration version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(_ []string, m *migration.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					log.Info("No migrations applied")
					return nil
				}
				log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Force set migration version (use with caution)",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(args []string, m *migration.Migrator) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version number %q", args[0])
				}
				log.Warn("Forcing migration version - use with caution!")
				return m.Force(version)
			}),
		},
		newCreateCmd(),
		newListCmd(),
		newSeedDatesCmd(),
	)
	return root
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create a new migration file pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(appFs, sourceDir(), args[0], description, time.Now())
			if err != nil {
				return err
			}
			log.Info("Migration created",
				zap.Uint("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			fmt.Fprintln(cmd.OutOrStdout(), mf.UpPath)
			fmt.Fprintln(cmd.OutOrStdout(), mf.DownPath)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := migration.ListMigrations(appFs, sourceDir())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				log.Info("No migrations found")
				return nil
			}
			for _, m := range list {
				down := ""
				if !m.HasDown {
					down = " (no down)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%06d %s%s\n", m.Version, m.Name, down)
			}
			return nil
		},
	}
}

func newSeedDatesCmd() *cobra.Command {
	var (
		days         int
		skipWeekends bool
	)
	cmd := &cobra.Command{
		Use:   "seed-dates",
		Short: "Open bookable dates from today up to the horizon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if !cmd.Flags().Changed("days") {
				days = cfg.Booking.SeedDays
			}
			if !cmd.Flags().Changed("skip-weekends") {
				skipWeekends = cfg.Booking.SkipWeekends
			}

			db, err := persistence.NewDatabase(&cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			service := calendarapp.NewDateService(persistence.NewGormAvailableDateRepository(db.DB), shared.SystemClock{}, log)
			created, err := service.EnsureHorizon(cmd.Context(), days, skipWeekends)
			if err != nil {
				return err
			}
			log.Info("Calendar seeded", zap.Int("created", created), zap.Int("days", days))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Number of days ahead to open")
	cmd.Flags().BoolVar(&skipWeekends, "skip-weekends", true, "Leave Saturdays and Sundays closed")
	return cmd
}

// withMigrator opens the postgres database and a Migrator for fn
func withMigrator(fn func(args []string, m *migration.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Database.Driver == "sqlite" {
			return fmt.Errorf("sqlite schema is created on server start; migrations target postgres")
		}

		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		dir := ""
		if migrationsPath != "" {
			if dir, err = filepath.Abs(migrationsPath); err != nil {
				return err
			}
		}
		log.Info("Migration CLI started", zap.String("command", cmd.Name()), zap.String("migrations_path", displayPath(dir)))

		m, err := migration.New(db, dir, log)
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()

		return fn(args, m)
	}
}

// sourceDir is where create and list look for files
func sourceDir() string {
	if migrationsPath != "" {
		return migrationsPath
	}
	return defaultMigrationsPath
}

func displayPath(dir string) string {
	if dir == "" {
		return "embedded"
	}
	return dir
}
