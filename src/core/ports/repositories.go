// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra/repo. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"
	"encoding/json"

	"lexbridge/src/core/domain"
)

// DocumentRepository is the storage port for the document store: generic
// CRUD over one physical table keyed by a globally unique record id.
type DocumentRepository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error

	// EnsureSchema idempotently creates the backing table and index.
	EnsureSchema(ctx context.Context) error

	// List returns the content of every record in a store, most recently
	// updated first. An unknown store yields an empty slice, not an error.
	List(ctx context.Context, store string) ([]json.RawMessage, error)

	// Upsert atomically inserts or replaces the record keyed by its id,
	// refreshing the server-assigned update timestamp.
	Upsert(ctx context.Context, rec domain.Record) error

	// Delete removes a record by id alone. Deleting an absent id is not
	// an error; ids are unique across all stores.
	Delete(ctx context.Context, id string) error

	// ExportAll reads every record regardless of store and groups content
	// by store name, in scan order.
	ExportAll(ctx context.Context) (map[string][]json.RawMessage, error)
}
