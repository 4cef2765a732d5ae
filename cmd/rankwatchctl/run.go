package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rankwatch/rankwatch/pkg/artifact"
	"github.com/rankwatch/rankwatch/pkg/collector"
	"github.com/rankwatch/rankwatch/pkg/config"
	"github.com/rankwatch/rankwatch/pkg/db"
	"github.com/rankwatch/rankwatch/pkg/model"
	gormstore "github.com/rankwatch/rankwatch/pkg/server/store/gorm"
	"github.com/rankwatch/rankwatch/pkg/sheets"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a single collection run",
	Long: `Execute a single collection run and exit.

The run fetches every enabled target, extracts the sales-rank columns and
appends one row to the configured spreadsheet. The run is recorded in the
database the same way a scheduled run is.

Example:
  rankwatchctl run`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce() error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet_id is required (config file or RANKWATCH_SPREADSHEET_ID)")
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	if err := seedTargets(database, cfg); err != nil {
		return err
	}

	ctx := context.Background()
	sheet, err := sheets.NewClient(ctx, cfg.CredentialsPath, cfg.SpreadsheetID, cfg.Worksheet)
	if err != nil {
		return fmt.Errorf("failed to create Sheets client: %w", err)
	}

	location, err := cfg.Location()
	if err != nil {
		return err
	}

	c := collector.New(collector.Options{
		Runs:         gormstore.NewRunsStore(database),
		Rows:         gormstore.NewRowsStore(database),
		Artifacts:    gormstore.NewArtifactsStore(database),
		Targets:      gormstore.NewTargetsStore(database),
		Fetcher:      buildFetcher(cfg),
		Sheet:        sheet,
		Files:        artifact.NewFSStore(cfg.ArtifactDir),
		Location:     location,
		FetchTimeout: cfg.FetchTimeoutDuration(),
		FetcherName:  cfg.Fetcher,

		SpreadsheetID: cfg.SpreadsheetID,
		Worksheet:     cfg.Worksheet,
	})

	run, err := c.Collect(ctx, model.TriggerManual)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d finished: %s\n", run.ID, run.Status)
	if run.RowPreview != "" {
		fmt.Println(run.RowPreview)
	}
	return nil
}
