package models

import (
	"encoding/json"
	"time"
)

// MutationMethod describes the write semantics of a queued mutation.
type MutationMethod string

const (
	MethodCreate MutationMethod = "create"
	MethodUpdate MutationMethod = "update"
	MethodDelete MutationMethod = "delete"
)

// Valid reports whether m is one of the known mutation methods.
func (m MutationMethod) Valid() bool {
	switch m {
	case MethodCreate, MethodUpdate, MethodDelete:
		return true
	}
	return false
}

// MutationStatus is the lifecycle state of a queue row.
//
// Rows are created pending, deleted on confirmed remote application, and
// moved to failed only when the remote rejected the payload permanently.
// Failed is terminal: the row is kept for review but never retried.
type MutationStatus string

const (
	StatusPending   MutationStatus = "pending"
	StatusFailed    MutationStatus = "failed"
	StatusCompleted MutationStatus = "completed"
)

// MutationRequest is the caller-facing shape of one offline write attempt.
// RequestID may be left empty; the queue manager assigns one.
type MutationRequest struct {
	RequestID string         `json:"request_id,omitempty"`
	Method    MutationMethod `json:"method"`
	Target    string         `json:"target"`
	Payload   any            `json:"payload"`
}

// QueuedMutation is a queue row as persisted. Payload is ciphertext produced
// by the cipher service; it never touches the store in the clear.
type QueuedMutation struct {
	RequestID string         `json:"request_id"`
	Method    MutationMethod `json:"method"`
	Target    string         `json:"target"`
	Payload   string         `json:"payload"`
	Retries   int64          `json:"retries"`
	Status    MutationStatus `json:"status"`
	LastError string         `json:"last_error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Mutation is the decrypted view of a pending queue row handed to the push
// phase. Body holds the serialized request body exactly as the caller
// enqueued it.
type Mutation struct {
	RequestID string
	Method    MutationMethod
	Target    string
	Body      json.RawMessage
	Retries   int64
	CreatedAt time.Time
}
