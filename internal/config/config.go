package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"structdiff/internal/semantic"
	"structdiff/internal/structural"
)

// StateDirName is the per-project state directory holding the config
// file and the report database.
const StateDirName = ".structdiff"

// Config represents the complete structdiff configuration.
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Compare    CompareConfig    `json:"compare" mapstructure:"compare"`
	LineDiff   LineDiffConfig   `json:"lineDiff" mapstructure:"lineDiff"`
	Frameworks FrameworksConfig `json:"frameworks" mapstructure:"frameworks"`
	Store      StoreConfig      `json:"store" mapstructure:"store"`
	Output     OutputConfig     `json:"output" mapstructure:"output"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// CompareConfig tunes the structural comparison.
type CompareConfig struct {
	IgnoreWhitespace  bool    `json:"ignoreWhitespace" mapstructure:"ignoreWhitespace"`
	ParallelThreshold int     `json:"parallelThreshold" mapstructure:"parallelThreshold"`
	RenameThreshold   float64 `json:"renameThreshold" mapstructure:"renameThreshold"`
	MoveThreshold     float64 `json:"moveThreshold" mapstructure:"moveThreshold"`
}

// LineDiffConfig tunes the line-based fallback differ.
type LineDiffConfig struct {
	WhitespaceMode string `json:"whitespaceMode" mapstructure:"whitespaceMode"`
	Context        int    `json:"context" mapstructure:"context"`
}

// FrameworksConfig contains multi-configuration analysis settings.
type FrameworksConfig struct {
	DeclarationFile string `json:"declarationFile" mapstructure:"declarationFile"`
}

// StoreConfig contains report history settings.
type StoreConfig struct {
	Dir string `json:"dir" mapstructure:"dir"`
}

// OutputConfig contains default output settings.
type OutputConfig struct {
	Format string `json:"format" mapstructure:"format"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Compare: CompareConfig{
			IgnoreWhitespace:  false,
			ParallelThreshold: structural.DefaultParallelThreshold,
			RenameThreshold:   semantic.RenameThreshold,
			MoveThreshold:     semantic.MoveThreshold,
		},
		LineDiff: LineDiffConfig{
			WhitespaceMode: "exact",
			Context:        3,
		},
		Frameworks: FrameworksConfig{
			DeclarationFile: "FRAMEWORKS.toml",
		},
		Store: StoreConfig{
			Dir: StateDirName,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .structdiff/config.json under the
// given root. A missing file yields the defaults.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("compare.parallelThreshold", defaults.Compare.ParallelThreshold)
	v.SetDefault("compare.renameThreshold", defaults.Compare.RenameThreshold)
	v.SetDefault("compare.moveThreshold", defaults.Compare.MoveThreshold)
	v.SetDefault("lineDiff.whitespaceMode", defaults.LineDiff.WhitespaceMode)
	v.SetDefault("lineDiff.context", defaults.LineDiff.Context)
	v.SetDefault("frameworks.declarationFile", defaults.Frameworks.DeclarationFile)
	v.SetDefault("store.dir", defaults.Store.Dir)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, StateDirName))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .structdiff/config.json.
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, StateDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Compare.RenameThreshold < 0 || c.Compare.RenameThreshold > 1 {
		return &ConfigError{Field: "compare.renameThreshold", Message: "must be between 0 and 1"}
	}
	if c.Compare.MoveThreshold < 0 || c.Compare.MoveThreshold > 1 {
		return &ConfigError{Field: "compare.moveThreshold", Message: "must be between 0 and 1"}
	}
	if c.LineDiff.Context < 0 {
		return &ConfigError{Field: "lineDiff.context", Message: "must not be negative"}
	}
	switch c.LineDiff.WhitespaceMode {
	case "exact", "ignore_trailing", "ignore_all":
	default:
		return &ConfigError{Field: "lineDiff.whitespaceMode", Message: "must be exact, ignore_trailing, or ignore_all"}
	}
	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
