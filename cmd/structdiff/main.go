package main

import (
	"os"

	"structdiff/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := logging.NewLogger(logging.Config{
			Format: logging.HumanFormat,
			Level:  logging.InfoLevel,
		})
		logger.Error("command execution failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(2)
	}
}
