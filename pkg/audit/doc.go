// Package audit provides audit logging for rankwatch operations.
//
// This package implements structured audit logging for collector activity
// such as run lifecycle, page fetches, sheet appends and artifact captures.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Run events (started/succeeded/failed)
//   - Page fetch events per target
//   - Sheet append events
//   - Artifact capture events
//
// # Usage
//
//	audit.Log(audit.RunEvent{RunID: run.ID, Trigger: run.Trigger, Success: true})
//
// Audit events are logged in RFC5424 syslog format suitable for shipping
// to a log collector.
package audit
