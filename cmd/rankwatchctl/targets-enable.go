package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rankwatch/rankwatch/pkg/db"
	"github.com/rankwatch/rankwatch/pkg/server/store"
	gormstore "github.com/rankwatch/rankwatch/pkg/server/store/gorm"
)

// targetsEnableCmd represents the targets enable command
var targetsEnableCmd = &cobra.Command{
	Use:   "enable <slug>",
	Short: "Enable collection for a target",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setTargetEnabled(args[0], true); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to enable target: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Target %s enabled\n", args[0])
	},
}

// targetsDisableCmd represents the targets disable command
var targetsDisableCmd = &cobra.Command{
	Use:   "disable <slug>",
	Short: "Disable collection for a target",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setTargetEnabled(args[0], false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to disable target: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Target %s disabled\n", args[0])
	},
}

func init() {
	targetsCmd.AddCommand(targetsEnableCmd)
	targetsCmd.AddCommand(targetsDisableCmd)
}

func setTargetEnabled(slug string, enabled bool) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	err = gormstore.NewTargetsStore(database).SetEnabled(slug, enabled)
	if errors.Is(err, store.ErrTargetNotFound) {
		return fmt.Errorf("no target with slug %q", slug)
	}
	return err
}
