// Package store provides storage abstractions for the rankwatch server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints and the collector to be decoupled from the specific
// database implementation. This enables easier testing with mocks and
// potential support for different storage backends.
//
// # Available Stores
//
//   - RunsStore: Collection run lifecycle (create, finish, list)
//   - RowsStore: Collected ranking rows per run
//   - ArtifactsStore: Captured file metadata per run
//   - TargetsStore: Watched product pages
//   - HealthStore: Database connectivity checks
//
// # Usage
//
//	runs := gorm.NewRunsStore(db)
//	run, err := runs.GetRun(42)
//	if err != nil {
//	    if errors.Is(err, store.ErrRunNotFound) {
//	        // Handle not found
//	    }
//	}
package store
