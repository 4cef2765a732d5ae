package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rankwatch/rankwatch/pkg/config"
	"github.com/rankwatch/rankwatch/pkg/credentials"
)

// credentialsWriteCmd represents the credentials write command
var credentialsWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the credentials file from GOOGLE_CREDENTIALS",
	Long: `Write the Google service account credentials file.

The JSON is taken from the GOOGLE_CREDENTIALS environment variable,
validated and written to the configured credentials path. An existing
file is left alone unless --force is set.

Example:
  export GOOGLE_CREDENTIALS=$(cat service-account.json)
  rankwatchctl credentials write
  rankwatchctl credentials write --path /etc/rankwatch/credentials.json --force`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")

		if path == "" {
			path = config.Get().CredentialsPath
		}

		if err := credentials.Materialize(path, force); err != nil {
			if errors.Is(err, credentials.ErrExists) {
				fmt.Fprintf(os.Stderr, "%s already exists, use --force to overwrite\n", path)
			} else {
				fmt.Fprintf(os.Stderr, "Failed to write credentials: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Credentials written to %s\n", path)
	},
}

func init() {
	credentialsCmd.AddCommand(credentialsWriteCmd)
	credentialsWriteCmd.Flags().StringP("path", "f", "", "Credentials file path (default: configured credentials_path)")
	credentialsWriteCmd.Flags().Bool("force", false, "Overwrite an existing credentials file")
}
