// Package config provides configuration management for rankwatch.
//
// This package handles loading and validating collector configuration
// from a YAML file and environment variables.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - /etc/rankwatch/rankwatch.yml (override the directory with RANKWATCH_CONFIG_PATH)
//   - RANKWATCH_* environment variables (take precedence over the file)
//
// # Key Configuration Options
//
//   - RANKWATCH_SCHEDULE: Cron expression for scheduled collection
//   - RANKWATCH_SPREADSHEET_ID: Destination Google Sheets spreadsheet
//   - RANKWATCH_CREDENTIALS_PATH: Service account credentials file
//   - DATABASE_URL: Database connection
//   - PORT: Server listen port
package config
