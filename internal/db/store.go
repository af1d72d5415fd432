// Package db provides durable session storage. The workflow component is the
// sole writer; the store persists byte-for-byte what it is handed.
package db

import (
	"context"
	"encoding/json"
	"time"
)

// Session is the persisted record for one planning conversation. JSON-shaped
// fields are stored as opaque serialized blobs and deserialized whole on read;
// a nil RawMessage means the field is absent.
type Session struct {
	SessionID       string
	RequirementText string
	Spec            json.RawMessage
	Proposal        json.RawMessage
	Bible           json.RawMessage
	OutlineFull     json.RawMessage
	Status          string
	Version         int
	BibleVersion    int
	OutlineVersion  int
	LastUserAction  string
	EditText        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SessionUpdate carries a partial update. Nil pointers leave the field
// unchanged; a pointer to a nil RawMessage or empty string clears it.
type SessionUpdate struct {
	RequirementText *string
	Spec            *json.RawMessage
	Proposal        *json.RawMessage
	Bible           *json.RawMessage
	OutlineFull     *json.RawMessage
	Status          *string
	Version         *int
	BibleVersion    *int
	OutlineVersion  *int
	LastUserAction  *string
	EditText        *string
}

// Store is the durable key-value contract per session. GetSession returns
// (nil, nil) when the session does not exist.
type Store interface {
	CreateSession(ctx context.Context, text string) (string, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	UpdateSession(ctx context.Context, sessionID string, upd SessionUpdate) error
}

// String returns a pointer for a SessionUpdate string field
func String(s string) *string { return &s }

// Int returns a pointer for a SessionUpdate int field
func Int(i int) *int { return &i }

// Raw returns a pointer for a SessionUpdate JSON field; Raw(nil) clears it
func Raw(m json.RawMessage) *json.RawMessage { return &m }
