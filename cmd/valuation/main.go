// Package main provides the entry point for the DCF valuation CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/dcf-simulator/internal/config"
	"github.com/yourusername/dcf-simulator/internal/database"
	applogger "github.com/yourusername/dcf-simulator/internal/logger"
	"github.com/yourusername/dcf-simulator/internal/repository"
	"github.com/yourusername/dcf-simulator/internal/scenario"
	"github.com/yourusername/dcf-simulator/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	svc        *service.ValuationService
)

var rootCmd = &cobra.Command{
	Use:           "valuation",
	Short:         "Scenario-driven DCF valuation and Monte Carlo simulator",
	Long:          `Value the company under preset or custom assumption sets, sample the share price distribution, and serve both over HTTP.`,
	Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.AddCommand(newCalcCmd(), newMonteCarloCmd(), newScenariosCmd(), newServeCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	// .env is optional
	_ = godotenv.Load()

	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.ApplySecretsFromEnv(ctx, cfg); err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	// Reports go to stdout, so logs go to stderr
	logger = applogger.NewLoggerWithOutput(cfg.App.LogLevel, cfg.App.Environment, os.Stderr)
	applogger.NewAuditLogger(logger).LogConfigurationLoaded(configFile, cfg.App.Environment, cfg.Database.Enabled)

	presets, err := scenario.LoadDir(cfg.Scenarios.PresetsDir)
	if err != nil {
		return err
	}

	if cfg.Database.Enabled {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return err
		}
		repos, err = repository.NewRepositories(ctx, db, presets)
		if err != nil {
			return err
		}
	} else {
		repos = repository.NewMemoryRepositories(presets)
	}

	svc = service.NewValuationService(repos.Scenario, service.Options{
		DefaultScenario: cfg.Valuation.DefaultScenario,
		History:         scenario.Historical(),
		Market:          scenario.Market(),
	}, logger)

	logger.WithFields(logrus.Fields{
		"store":     repos.Scenario.Kind(),
		"scenarios": len(presets),
	}).Debug("Dependencies initialised")
	return nil
}
