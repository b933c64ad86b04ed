package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"structdiff/internal/frameworks"
	"structdiff/internal/parser"
	"structdiff/internal/render"
	"structdiff/internal/structural"
)

var (
	frameworksFormat      string
	frameworksDeclaration string
	frameworksSave        bool
	frameworksOutputPath  string
)

var frameworksCmd = &cobra.Command{
	Use:   "frameworks OLD NEW",
	Short: "Compare a C# file once per build configuration",
	Long: `Compare two versions of a C# file under every declared build
configuration and merge the results.

Configurations come from FRAMEWORKS.toml in the working directory; when
no declaration file exists they are synthesized from the preprocessor
symbols found in the sources. Changes present under every configuration
are reported once; configuration-specific changes carry the names of
the configurations they apply to.

Examples:
  # Use FRAMEWORKS.toml
  structdiff frameworks old/Client.cs new/Client.cs

  # JSON report
  structdiff frameworks old/Client.cs new/Client.cs --format json`,
	Args: cobra.ExactArgs(2),
	Run:  runFrameworks,
}

func init() {
	frameworksCmd.Flags().StringVar(&frameworksFormat, "format", "", "Output format: text, json, yaml, or html (default: from config)")
	frameworksCmd.Flags().StringVar(&frameworksDeclaration, "declaration-file", "", "Configuration declaration file (default: FRAMEWORKS.toml)")
	frameworksCmd.Flags().BoolVar(&frameworksSave, "save", false, "Persist the report to the history database")
	frameworksCmd.Flags().StringVar(&frameworksOutputPath, "output", "", "Write the report to a file instead of stdout")

	rootCmd.AddCommand(frameworksCmd)
}

func runFrameworks(cmd *cobra.Command, args []string) {
	oldPath, newPath := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	logger := newLogger(cfg)

	format, err := resolveFormat(frameworksFormat, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if format == render.FormatUnified {
		fmt.Fprintln(os.Stderr, "Error: unified format is not available for multi-configuration runs")
		os.Exit(2)
	}

	oldSrc, err := os.ReadFile(oldPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", oldPath, err)
		os.Exit(2)
	}
	newSrc, err := os.ReadFile(newPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", newPath, err)
		os.Exit(2)
	}

	declaration := frameworksDeclaration
	if declaration == "" {
		declaration = cfg.Frameworks.DeclarationFile
	}
	configs, err := frameworks.LoadConfigurations(".", declaration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if len(configs) == 0 {
		symbols := frameworks.ScanSymbols(string(oldSrc), string(newSrc))
		configs = frameworks.ConfigurationsFromSymbols(symbols)
		logger.Debug("no declaration file, synthesized configurations", map[string]interface{}{
			"symbols": symbols,
		})
	}

	results, err := frameworks.RunConfigurations(cmd.Context(), configs, func(ctx context.Context, fc frameworks.Configuration) ([]structural.Change, error) {
		defined := fc.Defined()
		oldFiltered, err := frameworks.Filter(string(oldSrc), defined)
		if err != nil {
			return nil, err
		}
		newFiltered, err := frameworks.Filter(string(newSrc), defined)
		if err != nil {
			return nil, err
		}
		return runStructuralPipeline(ctx, pipelineInput{
			oldPath: oldPath,
			newPath: newPath,
			oldSrc:  []byte(oldFiltered),
			newSrc:  []byte(newFiltered),
			lang:    parser.LangCSharp,
			cfg:     cfg,
			logger:  logger,
		})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	report := render.NewReport(oldPath, newPath, frameworks.Merge(results))
	for _, fc := range configs {
		report.Configurations = append(report.Configurations, fc.Name)
	}

	if err := writeReport(format, report, frameworksOutputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if frameworksSave {
		saveReport(cfg, logger, report)
	}

	if hasBreakingPublicChanges(report) {
		os.Exit(1)
	}
}
