package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rankwatchctl",
	Short: "Rankwatch sales-rank collector",
	Long:  `rankwatchctl manages the Rankwatch sales-rank collection server and its data.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
