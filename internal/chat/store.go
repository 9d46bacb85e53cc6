package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmehta6/admitchat/internal/db"
	"github.com/nmehta6/admitchat/internal/kb"
	"github.com/nmehta6/admitchat/internal/llm"
)

// Store persists sessions, utterances, and per-turn execution records.
type Store struct {
	db *db.DB
}

// NewStore creates a new chat store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateSession starts a new conversation.
func (s *Store) CreateSession(ctx context.Context, origin string) (*Session, error) {
	if origin == "" {
		origin = "api"
	}
	sess := &Session{
		ID:        uuid.New().String(),
		Origin:    origin,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, origin, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Origin, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by ID. Returns nil if not found.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, origin, created_at, updated_at FROM chat_sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Origin, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &sess, nil
}

// ListMessages returns all utterances of a session in turn order.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]Utterance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, turn_index, role, content, created_at
		 FROM chat_messages WHERE session_id = ?
		 ORDER BY turn_index ASC, created_at ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var utterances []Utterance
	for rows.Next() {
		var u Utterance
		if err := rows.Scan(&u.ID, &u.SessionID, &u.Turn, &u.Role, &u.Text, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		utterances = append(utterances, u)
	}
	return utterances, rows.Err()
}

// NextTurn returns the index the next turn will use.
func (s *Store) NextTurn(ctx context.Context, sessionID string) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(turn_index) + 1, 0) FROM chat_messages WHERE session_id = ?`, sessionID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing next turn: %w", err)
	}
	return next, nil
}

// RecordClarification appends a completed clarification turn: the user
// utterance and the assistant's question, with no execution record. No
// fact-bearing answer exists on this path by construction. The turn is
// committed atomically; a failure records nothing.
func (s *Store) RecordClarification(ctx context.Context, sessionID string, turn int, userText, clarification string) (*Utterance, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning turn transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := appendMessage(ctx, tx, sessionID, turn, llm.RoleUser, userText); err != nil {
		return nil, err
	}
	answer, err := appendMessage(ctx, tx, sessionID, turn, llm.RoleAssistant, clarification)
	if err != nil {
		return nil, err
	}
	if err := touch(ctx, tx, sessionID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing turn: %w", err)
	}
	return answer, nil
}

// RecordAnswer appends a completed fact-bearing turn: the user
// utterance, the execution record, and the assistant's grounded answer.
// The execution record is mandatory — an answer cannot be recorded
// without the outcome that grounds it. All three rows commit in one
// transaction, so a turn is recorded whole or not at all.
func (s *Store) RecordAnswer(ctx context.Context, sessionID string, turn int, userText string, outcome *kb.Outcome, answerText string) (*Utterance, error) {
	if outcome == nil {
		return nil, fmt.Errorf("recording answer without an execution outcome")
	}

	outcomeJSON, err := json.Marshal(outcome)
	if err != nil {
		return nil, fmt.Errorf("marshalling outcome: %w", err)
	}
	status := "ok"
	if outcome.Failed() {
		status = "error"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning turn transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := appendMessage(ctx, tx, sessionID, turn, llm.RoleUser, userText); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO query_log (id, session_id, turn_index, query, outcome, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), sessionID, turn, outcome.Query, string(outcomeJSON), status, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting query log: %w", err)
	}
	answer, err := appendMessage(ctx, tx, sessionID, turn, llm.RoleAssistant, answerText)
	if err != nil {
		return nil, err
	}
	if err := touch(ctx, tx, sessionID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing turn: %w", err)
	}
	return answer, nil
}

// ListTurnRecords returns the execution records of a session in turn order.
func (s *Store) ListTurnRecords(ctx context.Context, sessionID string) ([]TurnRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, turn_index, query, outcome, status, created_at
		 FROM query_log WHERE session_id = ? ORDER BY turn_index ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing query log: %w", err)
	}
	defer rows.Close()

	var records []TurnRecord
	for rows.Next() {
		var r TurnRecord
		var outcomeJSON string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Turn, &r.Query, &outcomeJSON, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning query log: %w", err)
		}
		var outcome kb.Outcome
		if err := json.Unmarshal([]byte(outcomeJSON), &outcome); err != nil {
			return nil, fmt.Errorf("unmarshalling outcome for turn %d: %w", r.Turn, err)
		}
		r.Outcome = &outcome
		records = append(records, r)
	}
	return records, rows.Err()
}

// HasExecutionRecord reports whether the given turn executed a query.
func (s *Store) HasExecutionRecord(ctx context.Context, sessionID string, turn int) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM query_log WHERE session_id = ? AND turn_index = ?`, sessionID, turn,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking execution record: %w", err)
	}
	return n > 0, nil
}

func appendMessage(ctx context.Context, tx *sql.Tx, sessionID string, turn int, role llm.Role, text string) (*Utterance, error) {
	u := &Utterance{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Turn:      turn,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, turn_index, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.SessionID, u.Turn, u.Role, u.Text, u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}
	return u, nil
}

func touch(ctx context.Context, tx *sql.Tx, sessionID string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, time.Now().UTC(), sessionID,
	)
	return err
}
