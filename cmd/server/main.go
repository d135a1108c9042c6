package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/company-hunter/internal/app"
	"github.com/honeycarbs/company-hunter/internal/config"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

var (
	connectorsPath string
	logLevel       string
)

var rootCmd = &cobra.Command{
	Use:   "company-hunter",
	Short: "Find companies hiring near a location",
	Long: "company-hunter queries several job boards around a location, merges the results " +
		"by distance and serves them to MCP clients.",
	// no subcommand runs the MCP server
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&connectorsPath, "connectors", "", "path to connectors file (default: CONNECTORS_CONFIG env var)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path := connectorsPath
	if path == "" {
		path = os.Getenv("CONNECTORS_CONFIG")
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// initApp wires the application; the CLI commands log to the console
func initApp(ctx context.Context, console bool) (*app.App, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	var logger *logging.Logger
	if console {
		logger = logging.NewConsole(cfg.LogLevel)
	} else {
		logger = logging.New(cfg.LogLevel)
	}

	a, cleanup, err := app.Initialize(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}

	return a, func() {
		cleanup()
		_ = logger.Sync()
	}, nil
}
