package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction is the mutation recorded by an audit entry.
type AuditAction string

const (
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
)

// AuditEntry is an immutable record of one mutation. Before and After are full
// JSON snapshots of the record; a nil snapshot is encoded as null.
type AuditEntry struct {
	ID         uuid.UUID       `json:"id"`
	Model      string          `json:"model"`
	RecordID   uuid.UUID       `json:"recordId"`
	Action     AuditAction     `json:"action"`
	ActorID    *uuid.UUID      `json:"actorId"`
	ActorEmail *string         `json:"actorEmail"`
	Before     json.RawMessage `json:"before" swaggertype:"object"`
	After      json.RawMessage `json:"after" swaggertype:"object"`
	At         time.Time       `json:"at"`
}

// LogQuery narrows an audit listing. Zero values mean "no filter"; Limit is
// clamped by the service to its configured maximum.
type LogQuery struct {
	Model    string
	RecordID *uuid.UUID
	Limit    int
	Offset   int
}
