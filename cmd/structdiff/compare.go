package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"structdiff/internal/config"
	"structdiff/internal/impact"
	"structdiff/internal/linediff"
	"structdiff/internal/logging"
	"structdiff/internal/parser"
	"structdiff/internal/render"
	"structdiff/internal/semantic"
	"structdiff/internal/structural"
)

var (
	compareFormat     string
	compareIgnoreWS   bool
	compareContext    int
	compareSave       bool
	compareLang       string
	compareOutputPath string
)

var compareCmd = &cobra.Command{
	Use:   "compare OLD NEW",
	Short: "Compare two versions of a source file",
	Long: `Compare two versions of a source file at the declaration level.

Files with a registered grammar (C#, Go) are compared structurally:
declarations are matched by identity, renames and moves are recovered by
body similarity, and every change is classified by breaking-change
impact. Other file types fall back to a line diff.

Exits with code 1 when any breaking public API change is found.

Examples:
  # Structural comparison, human-readable output
  structdiff compare old/Service.cs new/Service.cs

  # JSON report for tooling
  structdiff compare old/Service.cs new/Service.cs --format json

  # Unified line diff regardless of file type
  structdiff compare old.txt new.txt --format unified

  # Persist the report for later inspection
  structdiff compare old/Service.cs new/Service.cs --save`,
	Args: cobra.ExactArgs(2),
	Run:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareFormat, "format", "", "Output format: text, json, yaml, html, or unified (default: from config)")
	compareCmd.Flags().BoolVar(&compareIgnoreWS, "ignore-whitespace", false, "Treat whitespace-only differences as unchanged")
	compareCmd.Flags().IntVar(&compareContext, "context", 0, "Context lines around line-diff hunks (default: from config)")
	compareCmd.Flags().BoolVar(&compareSave, "save", false, "Persist the report to the history database")
	compareCmd.Flags().StringVar(&compareLang, "lang", "", "Force a language: csharp, go, or text (default: detect from extension)")
	compareCmd.Flags().StringVar(&compareOutputPath, "output", "", "Write the report to a file instead of stdout")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) {
	oldPath, newPath := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	logger := newLogger(cfg)

	format, err := resolveFormat(compareFormat, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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

	lang, structuralRun := resolveLanguage(oldPath, compareLang)
	if format == render.FormatUnified {
		// Unified output is inherently line-based.
		structuralRun = false
	}

	var report *render.Report
	if structuralRun {
		changes, err := runStructuralPipeline(cmd.Context(), pipelineInput{
			oldPath: oldPath,
			newPath: newPath,
			oldSrc:  oldSrc,
			newSrc:  newSrc,
			lang:    lang,
			cfg:     cfg,
			logger:  logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		report = render.NewReport(oldPath, newPath, changes)
	} else {
		result := linediff.Compare(string(oldSrc), string(newSrc), linediff.Options{
			Mode:    lineWhitespaceMode(cfg),
			Context: lineContext(cfg),
			OldPath: oldPath,
			NewPath: newPath,
		})
		if format == render.FormatUnified {
			if err := writeUnified(result, compareOutputPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(2)
			}
			return
		}
		report = render.NewReport(oldPath, newPath, result.Changes)
	}

	if err := writeReport(format, report, compareOutputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if compareSave {
		saveReport(cfg, logger, report)
	}

	if hasBreakingPublicChanges(report) {
		os.Exit(1)
	}
}

// pipelineInput bundles the arguments of one structural comparison run.
type pipelineInput struct {
	oldPath, newPath string
	oldSrc, newSrc   []byte
	lang             parser.Language
	cfg              *config.Config
	logger           *logging.Logger
}

// runStructuralPipeline parses both versions and runs the full
// comparison: structural matching, semantic rename/move recovery, and
// impact classification.
func runStructuralPipeline(ctx context.Context, in pipelineInput) ([]structural.Change, error) {
	p := parser.NewParser()

	oldRoot, err := p.Parse(ctx, in.oldSrc, in.lang)
	if err != nil {
		return nil, err
	}
	newRoot, err := p.Parse(ctx, in.newSrc, in.lang)
	if err != nil {
		return nil, err
	}

	opts := structural.Options{
		IgnoreWhitespace:  compareIgnoreWS || in.cfg.Compare.IgnoreWhitespace,
		OldPath:           in.oldPath,
		NewPath:           in.newPath,
		ParallelThreshold: in.cfg.Compare.ParallelThreshold,
	}

	changes, err := structural.Compare(ctx, oldRoot, newRoot, opts)
	if err != nil {
		return nil, err
	}
	in.logger.Debug("structural comparison finished", map[string]interface{}{
		"changes": len(changes),
	})

	changes = semantic.EnhanceWithSemantics(changes, semantic.Options{
		RenameThreshold: in.cfg.Compare.RenameThreshold,
		MoveThreshold:   in.cfg.Compare.MoveThreshold,
	})
	changes = impact.Annotate(changes)
	return changes, nil
}

// resolveLanguage maps the --lang flag and the file extension to a
// grammar. The second return value is false when the comparison should
// fall back to the line differ.
func resolveLanguage(path, langFlag string) (parser.Language, bool) {
	switch langFlag {
	case "":
		lang, ok := parser.LanguageFromPath(path)
		return lang, ok
	case "text":
		return "", false
	default:
		return parser.Language(langFlag), true
	}
}

func resolveFormat(flag string, cfg *config.Config) (render.Format, error) {
	if flag == "" {
		flag = cfg.Output.Format
	}
	return render.ParseFormat(flag)
}

func lineWhitespaceMode(cfg *config.Config) linediff.WhitespaceMode {
	if compareIgnoreWS {
		return linediff.IgnoreAll
	}
	return linediff.WhitespaceMode(cfg.LineDiff.WhitespaceMode)
}

func lineContext(cfg *config.Config) int {
	if compareContext > 0 {
		return compareContext
	}
	return cfg.LineDiff.Context
}

func hasBreakingPublicChanges(report *render.Report) bool {
	if report.Summary == nil {
		return false
	}
	return report.Summary.ByImpact[string(structural.BreakingPublicAPI)] > 0
}
