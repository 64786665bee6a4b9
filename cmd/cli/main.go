package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutyroster/rotation-engine/cmd/cli/commands"
	"github.com/dutyroster/rotation-engine/internal/config"
	"github.com/dutyroster/rotation-engine/pkg/core/calendar"
	"github.com/dutyroster/rotation-engine/pkg/postgres"
	"github.com/dutyroster/rotation-engine/pkg/scopelock"
	"github.com/dutyroster/rotation-engine/pkg/utils/logging"
)

var (
	env     string
	actorID string

	// app is populated by initApp before any command runs.
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rotation",
		Short: "On-call rotation engine - equitable weekend and holiday duty",
		Long:  `Generate, reorder and analyze on-call rotations across sites, sectors and services.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
			if app.Database != nil {
				app.Database.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&actorID, "actor", "a", "", "Person ID of the caller (required)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.MarkPersistentFlagRequired("actor")

	rootCmd.AddCommand(commands.GenerateRotationCmd(app))
	rootCmd.AddCommand(commands.QueueCmd(app))
	rootCmd.AddCommand(commands.StatisticsCmd(app))
	rootCmd.AddCommand(commands.OptimizeCmd(app))
	rootCmd.AddCommand(commands.CoverCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the caller identity.
func initApp(cmd *cobra.Command) error {
	app.Ctx = context.Background()

	logger, err := logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger
	logger.Info("Starting application", zap.String("environment", env))

	logger.Info("Loading configuration")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg
	logger.Debug("Configuration loaded successfully",
		zap.String("holiday_table_version", cfg.HolidayTable.Version))

	logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Database = database
	logger.Debug("Database connection established")

	app.Locks = scopelock.NewRegistry(cfg.LockTimeout.Std())

	holidays := make([]calendar.Holiday, 0, len(cfg.HolidayTable.Holidays))
	for _, h := range cfg.HolidayTable.Holidays {
		holidays = append(holidays, calendar.Holiday{Date: h.Date, Name: h.Name})
	}
	app.Calendar = calendar.New(cfg.HolidayTable.Version, holidays)

	// migrate runs before the person table exists, so the caller cannot
	// be resolved yet.
	if cmd.Name() == "migrate" {
		return nil
	}

	logger.Info("Resolving caller", zap.String("actor_id", actorID))
	actor, err := database.GetPerson(app.Ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve actor: %w", err)
	}
	if !actor.Role.IsValid() {
		return fmt.Errorf("actor %s has unknown role %q", actor.ID, actor.Role)
	}
	app.Actor = *actor
	logger.Debug("Caller resolved",
		zap.String("actor_id", actor.ID),
		zap.String("role", string(actor.Role)))

	return nil
}
