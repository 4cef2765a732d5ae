package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rankwatch/rankwatch/pkg/db"
	gormstore "github.com/rankwatch/rankwatch/pkg/server/store/gorm"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collected ranking rows as CSV",
	Long: `Export every collected ranking row as CSV.

Each record carries the run, target and recording time followed by the
row's cells. The output goes to STDOUT unless --out is given.

Example:
  rankwatchctl export
  rankwatchctl export --out rankings.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := cmd.Flags().GetString("out")

		if err := runExport(out); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Output file (default: STDOUT)")
}

func runExport(out string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	rows, err := gormstore.NewRowsStore(database).ListRows()
	if err != nil {
		return err
	}

	var dest io.Writer = os.Stdout
	if out != "" {
		file, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = file.Close() }()
		dest = file
	}

	w := csv.NewWriter(dest)
	if err := w.Write([]string{"run_id", "target_slug", "recorded_at", "appended", "cells"}); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.RunID, 10),
			row.TargetSlug,
			row.RecordedAt.Format(time.RFC3339),
			strconv.FormatBool(row.Appended),
		}
		record = append(record, row.Cells...)
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if out != "" {
		fmt.Printf("Exported %d rows to %s\n", len(rows), out)
	}
	return nil
}
