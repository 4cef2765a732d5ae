// Package model defines the database models for rankwatch.
//
// This package contains GORM models that map to the rankwatch PostgreSQL
// schema.
//
// # Core Models
//
//   - Target: an Amazon product page watched for ranking changes
//   - Run: one execution of the collection pipeline
//   - RankingRow: the columns collected for a single target during a run
//   - Artifact: a file captured during a run (page snapshot, debug screenshot)
//
// # Database Schema
//
// The database uses PostgreSQL with the following tables:
//
//   - targets: watched product pages
//   - runs: collection run history
//   - ranking_rows: per-target collected columns, one row per target per run
//   - artifacts: captured file metadata (bytes live in the artifact directory)
package model
