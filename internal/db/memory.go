package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory. It backs offline serving,
// the demo command, and tests; semantics match PostgresStore.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// CreateSession inserts an empty session for the given raw text
func (s *MemoryStore) CreateSession(_ context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := uuid.New().String()
	now := time.Now().UTC()
	s.sessions[sessionID] = &Session{
		SessionID:       sessionID,
		RequirementText: text,
		Status:          "NEW",
		Version:         0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return sessionID, nil
}

// GetSession returns a copy of the stored session, or (nil, nil) when absent
func (s *MemoryStore) GetSession(_ context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return cloneSession(sess), nil
}

// UpdateSession applies a partial update with the same semantics as the
// Postgres implementation.
func (s *MemoryStore) UpdateSession(_ context.Context, sessionID string, upd SessionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	if upd.RequirementText != nil {
		sess.RequirementText = *upd.RequirementText
	}
	if upd.Spec != nil {
		sess.Spec = cloneRaw(*upd.Spec)
	}
	if upd.Proposal != nil {
		sess.Proposal = cloneRaw(*upd.Proposal)
	}
	if upd.Bible != nil {
		sess.Bible = cloneRaw(*upd.Bible)
	}
	if upd.OutlineFull != nil {
		sess.OutlineFull = cloneRaw(*upd.OutlineFull)
	}
	if upd.Status != nil {
		sess.Status = *upd.Status
	}
	if upd.Version != nil {
		sess.Version = *upd.Version
	}
	if upd.BibleVersion != nil {
		sess.BibleVersion = *upd.BibleVersion
	}
	if upd.OutlineVersion != nil {
		sess.OutlineVersion = *upd.OutlineVersion
	}
	if upd.LastUserAction != nil {
		sess.LastUserAction = *upd.LastUserAction
	}
	if upd.EditText != nil {
		sess.EditText = *upd.EditText
	}
	sess.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneSession(sess *Session) *Session {
	out := *sess
	out.Spec = cloneRaw(sess.Spec)
	out.Proposal = cloneRaw(sess.Proposal)
	out.Bible = cloneRaw(sess.Bible)
	out.OutlineFull = cloneRaw(sess.OutlineFull)
	return &out
}

func cloneRaw(m []byte) []byte {
	if m == nil {
		return nil
	}
	out := make([]byte, len(m))
	copy(out, m)
	return out
}
