// Package server provides the HTTP server for the rankwatch API.
//
// This package implements the HTTP server that exposes collection runs,
// collected rows, artifacts and targets. It uses gorilla/mux for routing
// and provides middleware for bearer token authentication.
//
// # Server Setup
//
//	srv := server.NewServer(db, cfg, collector, files, host, port)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection
//   - Collector: the collection pipeline for manual dispatch
//   - Files: artifact bytes on disk
//   - Stores: database-backed views of runs, rows, artifacts and targets
//   - TokenMiddleware: optional bearer token validation
package server
