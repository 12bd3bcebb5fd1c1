// Package domain contains the core domain model for the data bridge.
//
// This package defines:
//   - Record: the unit of storage, an opaque document in a named store
//   - Snapshot: a versioned full dump of every store
//   - Domain Errors: the configuration/connection/validation/query taxonomy
//
// Rules for this package:
//   - No external dependencies except the standard library
//   - No infrastructure concerns (database, HTTP, etc.)
package domain
