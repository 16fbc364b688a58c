package calllog

import (
	"appointment-ivr/internal/observability"
	"context"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // Import the pgx stdlib for sqlx
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("call not found")

// Recorder persists call lifecycle and conversation turns. Implementations
// must be safe for concurrent use.
type Recorder interface {
	StartCall(ctx context.Context, callSid, from, to string) error
	RecordTurn(ctx context.Context, callSid, role, content string) error
	EndCall(ctx context.Context, callSid, status string) error
}

// Store is the PostgreSQL-backed Recorder.
type Store struct {
	db     *sqlx.DB
	logger *observability.Logger
}

func New(connectionString string, logger *observability.Logger) (*Store, error) {
	db, err := sqlx.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open call log database: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// DB returns the underlying database connection
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

const sqlSchema = `
CREATE TABLE IF NOT EXISTS calls (
	call_sid    TEXT PRIMARY KEY,
	from_number TEXT NOT NULL DEFAULT '',
	to_number   TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'in-progress',
	started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	ended_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS call_turns (
	id         BIGSERIAL PRIMARY KEY,
	call_sid   TEXT NOT NULL REFERENCES calls (call_sid) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS call_turns_call_sid_idx ON call_turns (call_sid, id);
`

// EnsureSchema creates the call log tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping call log database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlSchema); err != nil {
		s.logger.Error(ctx, "failed to create call log schema", err)
		return fmt.Errorf("failed to create call log schema: %w", err)
	}
	return nil
}

// Nop discards everything. Used when no database is configured.
type Nop struct{}

func (Nop) StartCall(context.Context, string, string, string) error { return nil }
func (Nop) RecordTurn(context.Context, string, string, string) error { return nil }
func (Nop) EndCall(context.Context, string, string) error            { return nil }
