package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionsSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    requirement_text TEXT NOT NULL,
    spec_json JSONB,
    proposal_json JSONB,
    bible_json JSONB,
    outline_full_json JSONB,
    status TEXT NOT NULL,
    version INTEGER NOT NULL,
    bible_version INTEGER,
    outline_version INTEGER,
    last_user_action TEXT,
    edit_text TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore implements Store over a PostgreSQL connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and ensures the sessions table exists
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, sessionsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure sessions table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CreateSession inserts an empty session for the given raw text and returns
// its opaque identifier.
func (s *PostgresStore) CreateSession(ctx context.Context, text string) (string, error) {
	sessionID := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (session_id, requirement_text, status, version)
		 VALUES ($1, $2, 'NEW', 0)`,
		sessionID, text,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return sessionID, nil
}

// GetSession loads a session by id, returning (nil, nil) when absent
func (s *PostgresStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var (
		sess                           Session
		spec, proposal, bible, outline []byte
		bibleVersion, outlineVersion   *int
		lastUserAction, editText       *string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT session_id, requirement_text, spec_json, proposal_json, bible_json,
		        outline_full_json, status, version, bible_version, outline_version,
		        last_user_action, edit_text, created_at, updated_at
		 FROM sessions WHERE session_id = $1`,
		sessionID,
	).Scan(
		&sess.SessionID, &sess.RequirementText, &spec, &proposal, &bible,
		&outline, &sess.Status, &sess.Version, &bibleVersion, &outlineVersion,
		&lastUserAction, &editText, &sess.CreatedAt, &sess.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess.Spec = json.RawMessage(spec)
	sess.Proposal = json.RawMessage(proposal)
	sess.Bible = json.RawMessage(bible)
	sess.OutlineFull = json.RawMessage(outline)
	if bibleVersion != nil {
		sess.BibleVersion = *bibleVersion
	}
	if outlineVersion != nil {
		sess.OutlineVersion = *outlineVersion
	}
	if lastUserAction != nil {
		sess.LastUserAction = *lastUserAction
	}
	if editText != nil {
		sess.EditText = *editText
	}
	return &sess, nil
}

// UpdateSession applies a partial update. Fields not supplied are left
// unchanged; updated_at is touched on every call.
func (s *PostgresStore) UpdateSession(ctx context.Context, sessionID string, upd SessionUpdate) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.RequirementText != nil {
		add("requirement_text", *upd.RequirementText)
	}
	if upd.Spec != nil {
		add("spec_json", rawOrNil(*upd.Spec))
	}
	if upd.Proposal != nil {
		add("proposal_json", rawOrNil(*upd.Proposal))
	}
	if upd.Bible != nil {
		add("bible_json", rawOrNil(*upd.Bible))
	}
	if upd.OutlineFull != nil {
		add("outline_full_json", rawOrNil(*upd.OutlineFull))
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Version != nil {
		add("version", *upd.Version)
	}
	if upd.BibleVersion != nil {
		add("bible_version", *upd.BibleVersion)
	}
	if upd.OutlineVersion != nil {
		add("outline_version", *upd.OutlineVersion)
	}
	if upd.LastUserAction != nil {
		add("last_user_action", stringOrNil(*upd.LastUserAction))
	}
	if upd.EditText != nil {
		add("edit_text", stringOrNil(*upd.EditText))
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, sessionID)
	query := fmt.Sprintf("UPDATE sessions SET %s WHERE session_id = $%d",
		strings.Join(sets, ", "), len(args))

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

func rawOrNil(m json.RawMessage) any {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}

func stringOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
