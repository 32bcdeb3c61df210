package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"budgetboard/internal/charts"
	"budgetboard/internal/config"
	"budgetboard/internal/fetchers"
	"budgetboard/internal/logger"
	"budgetboard/internal/mocks/backend"
	"budgetboard/internal/page"
)

var (
	flagConfigFile string
	flagMockup     bool
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:          "budgetboard",
	Short:        "Budget chart service",
	Long:         "Fetch budget data from the budget API and render it as pie and bar charts.",
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", "", "TOML config file (sets CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&flagMockup, "mockup", false, "Serve built-in fixture data instead of calling the budget API")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override LOG_LEVEL")
}

// app holds everything a command needs after configuration is loaded
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	page    *page.Page
	mock    *backend.MockService
	version string
}

// setup loads configuration, builds the logger and wires the page to its budget source
func setup(ctx context.Context) (*app, error) {
	if flagConfigFile != "" {
		os.Setenv("CONFIG_FILE", flagConfigFile)
	}
	if flagMockup {
		os.Setenv("MOCKUP_MODE", "true")
	}
	if flagLogLevel != "" {
		os.Setenv("LOG_LEVEL", flagLogLevel)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Configure(cfg.LogLevel, cfg.ResolvedLogFormat())
	a := &app{cfg: cfg, log: log, version: config.GetVersion()}

	if cfg.MockupMode {
		a.mock = backend.NewMockService("internal/mocks/backend", log)
		baseURL, err := a.mock.Start(cfg.BudgetPiePath, cfg.BudgetBarPath)
		if err != nil {
			return nil, err
		}
		cfg.BudgetAPIURL = baseURL
		log.Info("Mockup mode enabled", map[string]interface{}{"budget_api": baseURL})
	}

	pieBackend, err := charts.NewPieBackend(cfg.PieBackend)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	fetcher := fetchers.NewBudgetFetcherFromConfig(cfg)
	a.page = page.New(fetcher, pieBackend, log)

	log.Info("Configuration loaded", map[string]interface{}{
		"environment": cfg.Environment,
		"budget_api":  cfg.BudgetAPIURL,
		"pie_backend": pieBackend.Name(),
		"storage":     cfg.StorageMode,
		"version":     a.version,
	})
	return a, nil
}

func (a *app) close(ctx context.Context) {
	if a.page != nil {
		a.page.Close()
	}
	if a.mock != nil {
		if err := a.mock.Close(ctx); err != nil {
			a.log.Warn("Failed to stop mock backend", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = a.log.Sync()
}
