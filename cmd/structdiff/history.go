package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"structdiff/internal/render"
	"structdiff/internal/store"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved comparison reports",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	Run:   runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Render a saved report",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryShow,
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of reports to list (0 for all)")
	historyShowCmd.Flags().StringVar(&historyFormat, "format", "", "Output format: text, json, yaml, or html (default: from config)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistoryStore() *store.Store {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	s, err := store.Open(cfg.Store.Dir, newLogger(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	return s
}

func runHistoryList(cmd *cobra.Command, args []string) {
	s := openHistoryStore()
	defer s.Close()

	entries, err := s.List(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if len(entries) == 0 {
		fmt.Println("no saved reports")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tOLD\tNEW\tCHANGES\tBREAKING")
	for _, e := range entries {
		changes, breaking := 0, 0
		if e.Summary != nil {
			changes, breaking = e.Summary.TotalChanges, e.Summary.BreakingChanges
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"), e.OldLabel, e.NewLabel, changes, breaking)
	}
	_ = w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	format, err := resolveFormat(historyFormat, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if format == render.FormatUnified {
		fmt.Fprintln(os.Stderr, "Error: unified format is not available for saved reports")
		os.Exit(2)
	}

	s, err := store.Open(cfg.Store.Dir, newLogger(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer s.Close()

	report, err := s.Get(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := render.Write(os.Stdout, format, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
