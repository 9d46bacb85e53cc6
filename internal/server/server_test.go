package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nmehta6/admitchat/internal/chat"
	"github.com/nmehta6/admitchat/internal/db"
	"github.com/nmehta6/admitchat/internal/kb"
	"github.com/nmehta6/admitchat/internal/llm"
)

type stubProvider struct {
	responses []*llm.CompletionResponse
	calls     int
}

func (p *stubProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp := p.responses[p.calls%len(p.responses)]
	p.calls++
	return resp, nil
}

func (p *stubProvider) Name() string { return "stub" }

func newTestServer(t *testing.T, provider llm.Provider) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	var orch *chat.Orchestrator
	if provider != nil {
		session, err := kb.NewSession(kb.DefaultCorpus())
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		orch = chat.NewOrchestrator(provider, session, chat.NewStore(database), chat.Options{Model: "gpt-4o"})
	}
	return New(Config{Port: 0}, database, orch)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	srv := New(Config{Port: 0, AllowAll: true}, database, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestSessionMessageFlow(t *testing.T) {
	provider := &stubProvider{
		responses: []*llm.CompletionResponse{
			{ToolCalls: []llm.ToolCall{{
				ID:        "call_1",
				Name:      chat.QueryToolName,
				Arguments: `{"query":"base_fees(btech_cs, Fees)"}`,
			}}},
			{Content: "B.Tech Computer Science costs **12000 USD** per year."},
		},
	}
	srv := newTestServer(t, provider)

	// Create a session.
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d", w.Code)
	}
	var sess chat.Session
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}

	// Send a message.
	body := strings.NewReader(`{"text":"What does B.Tech CS cost?"}`)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/"+sess.ID+"/messages", body))
	if w.Code != http.StatusOK {
		t.Fatalf("send message: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if text, _ := resp["text"].(string); !strings.Contains(text, "12000") {
		t.Errorf("answer text = %q", text)
	}
	if html, _ := resp["html"].(string); !strings.Contains(html, "<strong>12000 USD</strong>") {
		t.Errorf("answer html = %q", html)
	}
	if query, _ := resp["query"].(string); !strings.HasPrefix(query, "base_fees(") {
		t.Errorf("answer query = %q", query)
	}

	// The turn's execution record is visible.
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions/"+sess.ID+"/queries", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list queries: expected 200, got %d", w.Code)
	}
	var records []chat.TurnRecord
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("unmarshal records: %v", err)
	}
	if len(records) != 1 || records[0].Status != "ok" {
		t.Fatalf("records = %+v, want one ok record", records)
	}

	// History shows both utterances.
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions/"+sess.ID+"/messages", nil))
	var messages []chat.Utterance
	if err := json.Unmarshal(w.Body.Bytes(), &messages); err != nil {
		t.Fatalf("unmarshal messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
}

func TestMessageToUnknownSession(t *testing.T) {
	provider := &stubProvider{responses: []*llm.CompletionResponse{{Content: "?"}}}
	srv := newTestServer(t, provider)

	body := strings.NewReader(`{"text":"hello"}`)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions/nope/messages", body))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unknown session, got %d", w.Code)
	}
}
