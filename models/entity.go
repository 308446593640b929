package models

import (
	"encoding/json"
	"time"
)

// CachedEntity is the local read replica of one server-owned record.
// ID is the logical resource path of the record (e.g. "work-orders/42"),
// which is also the target of mutations addressing it. Payload is ciphertext.
//
// UpdatedAt only moves forward for a given ID: the cache layer applies
// last-writer-wins by timestamp and leaves conflict policy to the sync
// orchestrator.
type CachedEntity struct {
	ID        string    `json:"id"`
	Payload   string    `json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntitySnapshot is one authoritative record as served by the remote during
// the pull phase, before encryption for the local cache.
type EntitySnapshot struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}
