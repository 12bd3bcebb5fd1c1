package domain

import (
	"encoding/json"
	"time"
)

// Record is the unit of storage: one document in one logical store.
// Content is opaque to the bridge; its shape belongs to the frontend.
type Record struct {
	ID        string
	Store     string
	Content   json.RawMessage
	UpdatedAt time.Time
}

// Snapshot is a point-in-time dump of every store, suitable for offline
// backup. Restoring one is defined as replaying every record of every
// store through an upsert; upsert idempotence makes the order irrelevant.
type Snapshot struct {
	Version   string                       `json:"version"`
	Timestamp time.Time                    `json:"timestamp"`
	Data      map[string][]json.RawMessage `json:"data"`
}

// Store names the frontend is known to use. Diagnostic only: the bridge
// deliberately accepts any well-formed store name, so this is not a
// whitelist (see ValidStoreName).
const (
	StoreLegislators      = "legislators"
	StoreCommittees       = "committees"
	StoreTerms            = "terms"
	StoreSectors          = "sectors"
	StoreDocumentTypes    = "document_types"
	StoreDocumentStatuses = "document_statuses"
)

const maxStoreNameLen = 128

// ValidStoreName reports whether name is acceptable as a store identifier.
// The check is syntactic only; unknown names are allowed.
func ValidStoreName(name string) bool {
	if name == "" || len(name) > maxStoreNameLen {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
