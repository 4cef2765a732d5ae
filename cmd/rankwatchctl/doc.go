// Package main provides rankwatchctl, the CLI for the Rankwatch collection server.
//
// Rankwatch periodically fetches Amazon product pages, extracts the sales-rank
// ("売れ筋ランキング") section for each configured target and appends one
// timestamped row per run to a Google Sheets worksheet. Every run, row and
// artifact (page snapshot, screenshot) is also recorded in PostgreSQL.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/collector: the collection pipeline (fetch, extract, persist, append)
//   - pkg/scheduler: cron-driven run dispatch
//   - pkg/fetch: page fetchers (plain HTTP and headless browser)
//   - pkg/ranking: sales-rank extraction from page HTML
//   - pkg/sheets: Google Sheets client
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/audit: Audit logging
//   - pkg/config: Configuration management
//
// # Quick Start
//
// The server is run via the rankwatchctl CLI:
//
//	# Write the Google service account credentials file
//	export GOOGLE_CREDENTIALS=$(cat service-account.json)
//	rankwatchctl credentials write
//
//	# Run database migrations
//	rankwatchctl db migrate
//
//	# Start the server
//	rankwatchctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - GOOGLE_CREDENTIALS: Service account JSON for the Sheets API
//   - RANKWATCH_API_TOKEN_KEY: HMAC key guarding mutating API endpoints
//   - RANKWATCH_LOG_LEVEL: Log level (debug enables SQL logging)
//   - PORT: Server port (default: 8000)
//
// For more information, see https://github.com/rankwatch/rankwatch
package main
