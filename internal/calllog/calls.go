package calllog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Call struct {
	CallSid    string       `db:"call_sid" json:"call_sid"`
	FromNumber string       `db:"from_number" json:"from_number"`
	ToNumber   string       `db:"to_number" json:"to_number"`
	Status     string       `db:"status" json:"status"`
	StartedAt  time.Time    `db:"started_at" json:"started_at"`
	EndedAt    sql.NullTime `db:"ended_at" json:"-"`
}

type Turn struct {
	ID        int64     `db:"id" json:"id"`
	CallSid   string    `db:"call_sid" json:"call_sid"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const TurnRoleUser = "user"
const TurnRoleAssistant = "assistant"
const TurnRoleTranscript = "transcript"

// Twilio retries webhooks, so starting a known call is a no-op.
const sqlStartCall = `
INSERT INTO calls (call_sid, from_number, to_number)
VALUES ($1, $2, $3)
ON CONFLICT (call_sid) DO NOTHING`

func (s *Store) StartCall(ctx context.Context, callSid, from, to string) error {
	_, err := s.db.ExecContext(ctx, sqlStartCall, callSid, from, to)
	if err != nil {
		s.logger.Error(ctx, "failed to start call", err)
		return fmt.Errorf("failed to start call: %w", err)
	}
	return nil
}

const sqlRecordTurn = `
INSERT INTO call_turns (call_sid, role, content)
SELECT $1::text, $2::text, $3::text
WHERE EXISTS (SELECT 1 FROM calls WHERE call_sid = $1)`

func (s *Store) RecordTurn(ctx context.Context, callSid, role, content string) error {
	result, err := s.db.ExecContext(ctx, sqlRecordTurn, callSid, role, content)
	if err != nil {
		s.logger.Error(ctx, "failed to record call turn", err)
		return fmt.Errorf("failed to record call turn: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Error(ctx, "failed to get rows affected", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlEndCall = `
UPDATE calls SET status = $2, ended_at = NOW()
WHERE call_sid = $1`

func (s *Store) EndCall(ctx context.Context, callSid, status string) error {
	result, err := s.db.ExecContext(ctx, sqlEndCall, callSid, status)
	if err != nil {
		s.logger.Error(ctx, "failed to end call", err)
		return fmt.Errorf("failed to end call: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Error(ctx, "failed to get rows affected", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlGetCall = `
SELECT call_sid, from_number, to_number, status, started_at, ended_at
FROM calls WHERE call_sid = $1`

func (s *Store) GetCall(ctx context.Context, callSid string) (Call, error) {
	var call Call
	err := s.db.GetContext(ctx, &call, sqlGetCall, callSid)
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, ErrNotFound
	}
	if err != nil {
		s.logger.Error(ctx, "failed to get call", err)
		return Call{}, fmt.Errorf("failed to get call: %w", err)
	}
	return call, nil
}

const sqlListTurns = `
SELECT id, call_sid, role, content, created_at
FROM call_turns WHERE call_sid = $1 ORDER BY id ASC`

func (s *Store) ListTurns(ctx context.Context, callSid string) ([]Turn, error) {
	var turns []Turn
	err := s.db.SelectContext(ctx, &turns, sqlListTurns, callSid)
	if err != nil {
		s.logger.Error(ctx, "failed to list call turns", err)
		return nil, fmt.Errorf("failed to list call turns: %w", err)
	}
	return turns, nil
}
