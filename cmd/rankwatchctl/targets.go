package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// targetsCmd represents the targets command
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Manage collection targets",
	Long:  `Manage the product pages that collection runs watch.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'targets' requires a subcommand (list, enable, disable, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
