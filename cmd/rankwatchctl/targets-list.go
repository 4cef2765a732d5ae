package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rankwatch/rankwatch/pkg/db"
	gormstore "github.com/rankwatch/rankwatch/pkg/server/store/gorm"
)

// targetsListCmd represents the targets list command
var targetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the collection targets",
	Long: `List the collection targets recorded in the database.

Example:
  rankwatchctl targets list`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listTargets(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list targets: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	targetsCmd.AddCommand(targetsListCmd)
}

func listTargets() error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	targets, err := gormstore.NewTargetsStore(database).ListTargets()
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		fmt.Println("No targets configured")
		return nil
	}

	for _, t := range targets {
		state := "enabled"
		if !t.Enabled {
			state = "disabled"
		}
		fmt.Printf("%-12s %-8s %-8s cols=%d %s\n", t.Slug, t.Kind, state, t.Columns, t.URL)
	}
	return nil
}
