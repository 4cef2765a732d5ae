package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// credentialsCmd represents the credentials command
var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage the Google service account credentials",
	Long:  `Manage the Google service account credentials file used by the Sheets client.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'credentials' requires a subcommand (write, check)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(credentialsCmd)
}
