// Package credentials materializes and validates the Google service account
// credentials used to write to the spreadsheet.
//
// CI pipelines carry the service account JSON in the GOOGLE_CREDENTIALS
// environment variable. Materialize writes it to disk where the Sheets
// client expects a credentials file.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
)

// EnvVar is the environment variable carrying the service account JSON.
const EnvVar = "GOOGLE_CREDENTIALS"

// SpreadsheetsScope is the OAuth scope needed to append and sort rows.
const SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// ErrExists is returned when the target file already exists and force was
// not requested.
var ErrExists = errors.New("credentials file already exists")

// Materialize writes the JSON from the GOOGLE_CREDENTIALS environment
// variable to path with owner-only permissions. An existing file is left
// alone unless force is set.
func Materialize(path string, force bool) error {
	raw := os.Getenv(EnvVar)
	if raw == "" {
		return fmt.Errorf("%s environment variable is required", EnvVar)
	}

	if err := Validate([]byte(raw)); err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	return os.WriteFile(path, []byte(raw), 0o600)
}

// Validate checks that data is credentials JSON Google's libraries accept
// for the spreadsheets scope.
func Validate(data []byte) error {
	if _, err := google.CredentialsFromJSON(context.Background(), data, SpreadsheetsScope); err != nil {
		return fmt.Errorf("invalid service account credentials: %w", err)
	}
	return nil
}

// ValidateFile reads and validates a credentials file on disk.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Validate(data)
}
