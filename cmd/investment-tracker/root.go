package main

import (
	"fmt"

	"github.com/iwvelando/investment-tracker/internal/config"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig   string
	flagLogLevel string

	conf   *config.Configuration
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:               "investment-tracker",
	Short:             "Track an Indian stock portfolio and project savings goals",
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

// setup loads the configuration and builds the logger shared by every command.
func setup(_ *cobra.Command, _ []string) error {
	var err error
	conf, err = config.LoadConfiguration(flagConfig)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", flagConfig, err)
	}

	logger, err = initializeLogger(conf.Logging, flagLogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Debug("Configuration warning: "+warning,
			zap.String("op", "main.setup"),
		)
	}
	return nil
}
