package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// RegisterRoutes mounts the conversation API routes.
func RegisterRoutes(r chi.Router, store *Store, orch *Orchestrator) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreateSession(store))
		r.Get("/{id}/messages", handleListMessages(store))
		r.Post("/{id}/messages", handleSendMessage(orch))
		r.Get("/{id}/queries", handleListQueries(store))
	})
	r.Get("/api/chat/ws", handleWebSocket(store, orch))
}

func handleCreateSession(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := store.CreateSession(r.Context(), "api")
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sess)
	}
}

func handleListMessages(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, err := store.GetSession(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if sess == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		messages, err := store.ListMessages(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if messages == nil {
			messages = []Utterance{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(messages)
	}
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	SessionID     string      `json:"session_id"`
	Turn          int         `json:"turn"`
	Text          string      `json:"text"`
	HTML          string      `json:"html"`
	Clarification bool        `json:"clarification"`
	Query         string      `json:"query,omitempty"`
	Outcome       interface{} `json:"outcome,omitempty"`
}

func handleSendMessage(orch *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
			return
		}

		result, err := orch.HandleTurn(r.Context(), id, req.Text)
		if err != nil {
			var transport *TransportError
			if errors.As(err, &transport) {
				log.Printf("chat: %v", transport)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadGateway)
				json.NewEncoder(w).Encode(map[string]string{"error": Apology})
				return
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		resp := sendMessageResponse{
			SessionID:     id,
			Turn:          result.Answer.Turn,
			Text:          result.Answer.Text,
			HTML:          RenderMarkdown(result.Answer.Text),
			Clarification: result.Clarification,
			Query:         result.Query,
		}
		if result.Outcome != nil {
			resp.Outcome = result.Outcome
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func handleListQueries(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		records, err := store.ListTurnRecords(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []TurnRecord{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	SessionID string `json:"session_id"` // empty for new sessions
	Text      string `json:"text"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type          string `json:"type"` // "answer" or "error"
	SessionID     string `json:"session_id"`
	Turn          int    `json:"turn,omitempty"`
	Text          string `json:"text"`
	HTML          string `json:"html,omitempty"`
	Clarification bool   `json:"clarification,omitempty"`
	Query         string `json:"query,omitempty"`
}

func handleWebSocket(store *Store, orch *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("chat: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("chat: websocket read: %v", err)
				}
				return
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendWSError(conn, "", "invalid message format")
				continue
			}
			if req.Text == "" {
				sendWSError(conn, req.SessionID, "text is required")
				continue
			}

			sessionID := req.SessionID
			if sessionID == "" {
				sess, err := store.CreateSession(r.Context(), "websocket")
				if err != nil {
					sendWSError(conn, "", "failed to create session: "+err.Error())
					continue
				}
				sessionID = sess.ID
			}

			result, err := orch.HandleTurn(r.Context(), sessionID, req.Text)
			if err != nil {
				var transport *TransportError
				if errors.As(err, &transport) {
					log.Printf("chat: %v", transport)
					sendWSError(conn, sessionID, Apology)
				} else {
					sendWSError(conn, sessionID, err.Error())
				}
				continue
			}

			resp := wsResponse{
				Type:          "answer",
				SessionID:     sessionID,
				Turn:          result.Answer.Turn,
				Text:          result.Answer.Text,
				HTML:          RenderMarkdown(result.Answer.Text),
				Clarification: result.Clarification,
				Query:         result.Query,
			}
			if err := conn.WriteJSON(resp); err != nil {
				log.Printf("chat: websocket write: %v", err)
			}
		}
	}
}

func sendWSError(conn *websocket.Conn, sessionID, message string) {
	resp := wsResponse{
		Type:      "error",
		SessionID: sessionID,
		Text:      message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("chat: websocket write error: %v", err)
	}
}
