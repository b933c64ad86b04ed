package main

import (
	"github.com/spf13/cobra"

	"structdiff/internal/config"
	"structdiff/internal/logging"
	"structdiff/internal/version"
)

var (
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "structdiff",
	Short: "structdiff - structural code comparison",
	Long: `structdiff compares two versions of a source file at the declaration level
instead of line by line. It parses both versions, matches declarations by
identity, detects renames and moves by body similarity, and classifies every
change by its breaking-change impact on the public API.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate(version.Full() + "\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (default: from config)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default: from config)")
}

// newLogger builds the command logger from the config file with the CLI
// flags taking precedence.
func newLogger(cfg *config.Config) *logging.Logger {
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}

	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.LogLevel(level),
	})
}

// loadConfig loads .structdiff/config.json from the working directory,
// falling back to defaults when absent.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
