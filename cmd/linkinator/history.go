package main

import (
	"fmt"
	"os"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/davidhauck/linkinator/internal/config"
	"github.com/davidhauck/linkinator/internal/database"
	"github.com/davidhauck/linkinator/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [scan-id]",
		Short: "List past check runs or show one stored report",
		Long: `History lists check runs recorded in the scan-history database.

Without arguments it prints the most recent runs. With a scan id it
re-renders that run's full report.

Examples:
  # List the 20 most recent runs
  linkinator history

  # List the 50 most recent runs
  linkinator history -n 50

  # Show the stored report for run 12
  linkinator history 12

  # Show run 12 as JSON
  linkinator history --format json 12`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().StringP("format", "f", config.FormatText,
		"Report format when showing a single run: text, json, markdown, or csv")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	if len(args) == 1 {
		return showScan(cmd, db, args[0])
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	scans, err := db.RecentScans(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(scans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs yet.")
		return nil
	}

	tbl := table.New("ID", "DATE", "TARGET", "RESULT", "LINKS", "BROKEN").
		WithWriter(cmd.OutOrStdout())
	for _, s := range scans {
		result := "passed"
		if !s.Passed {
			result = "failed"
		}
		tbl.AddRow(s.ID, s.Timestamp.Format("2006-01-02 15:04"), s.Root,
			result, s.LinksTotal, s.LinksBroken)
	}
	tbl.Print()
	return nil
}

// showScan re-renders one stored report.
func showScan(cmd *cobra.Command, db *database.HistoryDB, arg string) error {
	var id int64
	if _, err := fmt.Sscanf(arg, "%d", &id); err != nil {
		return fmt.Errorf("invalid scan id %q", arg)
	}

	rep, err := db.GetReport(cmd.Context(), id)
	if err != nil {
		return err
	}
	if rep == nil {
		return fmt.Errorf("no scan with id %d", id)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	var w report.Writer
	switch format {
	case config.FormatJSON:
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	case config.FormatMarkdown:
		w = report.NewMarkdownWriter(os.Stdout)
	case config.FormatCSV:
		w = report.NewCSVWriter(os.Stdout)
	default:
		w = report.NewSimpleWriter(os.Stdout, report.WithVerbose(true))
	}

	_, err = w.Write(rep)
	return err
}
