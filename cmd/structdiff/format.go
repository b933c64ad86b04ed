package main

import (
	"io"
	"os"

	"structdiff/internal/config"
	"structdiff/internal/linediff"
	"structdiff/internal/logging"
	"structdiff/internal/render"
	"structdiff/internal/store"
)

// outputWriter opens the report destination: a file when --output is
// set, stdout otherwise.
func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeReport(format render.Format, report *render.Report, outputPath string) error {
	w, closeFn, err := outputWriter(outputPath)
	if err != nil {
		return err
	}
	if err := render.Write(w, format, report); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func writeUnified(result linediff.Result, outputPath string) error {
	w, closeFn, err := outputWriter(outputPath)
	if err != nil {
		return err
	}
	if err := render.WriteUnified(w, result); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

// saveReport persists the report to the history database. Failures are
// logged but do not fail the comparison; the report was already
// rendered.
func saveReport(cfg *config.Config, logger *logging.Logger, report *render.Report) {
	s, err := store.Open(cfg.Store.Dir, logger)
	if err != nil {
		logger.Warn("report not saved", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	defer s.Close()

	id, err := s.Save(report)
	if err != nil {
		logger.Warn("report not saved", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	logger.Info("report saved", map[string]interface{}{
		"id": id,
	})
}
