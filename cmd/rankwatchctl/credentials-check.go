package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rankwatch/rankwatch/pkg/config"
	"github.com/rankwatch/rankwatch/pkg/credentials"
)

// credentialsCheckCmd represents the credentials check command
var credentialsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the credentials file",
	Long: `Validate that the credentials file exists and parses as a Google
service account key.

Example:
  rankwatchctl credentials check`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			path = config.Get().CredentialsPath
		}

		if err := credentials.ValidateFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Credentials check failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s is a valid service account key\n", path)
	},
}

func init() {
	credentialsCmd.AddCommand(credentialsCheckCmd)
	credentialsCheckCmd.Flags().StringP("path", "f", "", "Credentials file path (default: configured credentials_path)")
}
