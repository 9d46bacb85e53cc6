package chat

import (
	"time"

	"github.com/nmehta6/admitchat/internal/kb"
	"github.com/nmehta6/admitchat/internal/llm"
)

// Session is one conversation. Its utterance sequence is append-only;
// the system instructions and corpus text shown to the model are
// constant for its whole lifetime.
type Session struct {
	ID        string    `json:"id"`
	Origin    string    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Utterance is a single recorded message. Immutable once recorded.
type Utterance struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Turn      int       `json:"turn"`
	Role      llm.Role  `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnRecord is the execution record of one turn: the query that ran
// and its outcome. Every fact-bearing assistant utterance has exactly
// one of these at the same turn index.
type TurnRecord struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Turn      int         `json:"turn"`
	Query     string      `json:"query"`
	Outcome   *kb.Outcome `json:"outcome"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// TurnResult is what one completed turn hands back to the caller.
type TurnResult struct {
	Answer        Utterance   `json:"answer"`
	Clarification bool        `json:"clarification"`
	Query         string      `json:"query,omitempty"`
	Outcome       *kb.Outcome `json:"outcome,omitempty"`
}
