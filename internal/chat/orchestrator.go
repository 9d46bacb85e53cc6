package chat

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nmehta6/admitchat/internal/kb"
	"github.com/nmehta6/admitchat/internal/llm"
)

// Orchestrator drives one turn at a time through synthesis, execution,
// and interpretation. The structural invariant: a fact-bearing answer
// can only be produced by the interpretation step, which always follows
// a knowledge-base execution — the synthesizer's output is only ever
// surfaced as a clarifying question, never as an answer.
type Orchestrator struct {
	synthesizer *Synthesizer
	interpreter *Interpreter
	kbSession   *kb.Session
	store       *Store
	usage       *llm.Usage

	requestTimeout time.Duration
	queryTimeout   time.Duration

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes the turns of one session. refs counts holders
// and waiters so the entry can be dropped once nobody needs it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Options configures an Orchestrator.
type Options struct {
	Model          string
	RequestTimeout time.Duration // per model round trip
	QueryTimeout   time.Duration // per knowledge-base execution
}

// NewOrchestrator wires the synthesizer and interpreter to a shared
// provider and one knowledge-base session.
func NewOrchestrator(provider llm.Provider, kbSession *kb.Session, store *Store, opts Options) *Orchestrator {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.QueryTimeout == 0 {
		opts.QueryTimeout = 10 * time.Second
	}
	usage := &llm.Usage{}
	corpus := kbSession.Corpus()
	return &Orchestrator{
		synthesizer:    NewSynthesizer(provider, opts.Model, corpus, usage),
		interpreter:    NewInterpreter(provider, opts.Model, corpus, usage),
		kbSession:      kbSession,
		store:          store,
		usage:          usage,
		requestTimeout: opts.RequestTimeout,
		queryTimeout:   opts.QueryTimeout,
		locks:          map[string]*sessionLock{},
	}
}

// Usage returns the accumulated model usage across all turns.
func (o *Orchestrator) Usage() *llm.Usage { return o.usage }

// Store returns the conversation store.
func (o *Orchestrator) Store() *Store { return o.store }

// KBSession returns the knowledge-base session the orchestrator executes
// queries against.
func (o *Orchestrator) KBSession() *kb.Session { return o.kbSession }

// HandleTurn processes one user turn and returns the assistant's
// utterance. Turns of the same session run strictly sequentially; a
// turn is only recorded once it completes, so a transport failure
// leaves history unchanged and the caller may retry. Transport
// failures are returned as *TransportError for the caller to surface
// as a generic apology.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, userText string) (*TurnResult, error) {
	unlock := o.lockSession(sessionID)
	defer unlock()

	sess, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("unknown session %s", sessionID)
	}

	history, err := o.store.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	turn, err := o.store.NextTurn(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	synthCtx, cancel := context.WithTimeout(ctx, o.requestTimeout)
	synthesis, err := o.synthesizer.Synthesize(synthCtx, history, userText)
	cancel()
	if err != nil {
		return nil, err
	}

	if !synthesis.HasQuery() {
		answer, err := o.store.RecordClarification(ctx, sessionID, turn, userText, synthesis.Clarification)
		if err != nil {
			return nil, err
		}
		return &TurnResult{Answer: *answer, Clarification: true}, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, o.queryTimeout)
	outcome := o.kbSession.Execute(queryCtx, synthesis.Query)
	cancel()
	if outcome.Failed() {
		log.Printf("chat: query failed for session %s turn %d: %v", sessionID, turn, outcome.Err)
	}

	interpCtx, cancel := context.WithTimeout(ctx, o.requestTimeout)
	answerText, err := o.interpreter.Interpret(interpCtx, userText, outcome.Query, outcome)
	cancel()
	if err != nil {
		return nil, err
	}

	answer, err := o.store.RecordAnswer(ctx, sessionID, turn, userText, outcome, answerText)
	if err != nil {
		return nil, err
	}
	return &TurnResult{
		Answer:  *answer,
		Query:   outcome.Query,
		Outcome: outcome,
	}, nil
}

// lockSession serializes turns per session. The knowledge-base session
// has its own mutual exclusion; this lock additionally keeps history
// ordered by completed turns. The map entry is removed when the last
// holder releases it, so idle sessions cost nothing.
func (o *Orchestrator) lockSession(sessionID string) func() {
	o.mu.Lock()
	l, ok := o.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		o.locks[sessionID] = l
	}
	l.refs++
	o.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		o.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(o.locks, sessionID)
		}
		o.mu.Unlock()
	}
}
