package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nmehta6/admitchat/internal/chat"
)

// handleAskAdvisor runs one full advisor turn: synthesis, execution, and
// interpretation. The session is created on first use so callers can
// hold a multi-turn conversation through the tool.
func (s *Server) handleAskAdvisor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		sess, err := s.orch.Store().CreateSession(ctx, "mcp")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create session: %v", err)), nil
		}
		sessionID = sess.ID
	}

	result, err := s.orch.HandleTurn(ctx, sessionID, question)
	if err != nil {
		var transport *chat.TransportError
		if errors.As(err, &transport) {
			return mcp.NewToolResultError(chat.Apology), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("advisor turn failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(result.Answer.Text)
	sb.WriteString("\n\nsession_id: ")
	sb.WriteString(sessionID)
	if result.Query != "" {
		sb.WriteString("\nquery: ")
		sb.WriteString(result.Query)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleRunQuery executes a query directly, bypassing the model. The
// result is the engine's raw rendering.
func (s *Server) handleRunQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	outcome := s.kbSession.Execute(queryCtx, query)
	if outcome.Failed() {
		return mcp.NewToolResultError(outcome.Text()), nil
	}
	return mcp.NewToolResultText(outcome.Text()), nil
}

// handleGetKnowledgeBase returns the corpus source verbatim.
func (s *Server) handleGetKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.kbSession.Corpus().Source()), nil
}
