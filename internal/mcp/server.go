package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/nmehta6/admitchat/internal/chat"
	"github.com/nmehta6/admitchat/internal/kb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the admissions advisor and
// direct knowledge-base access as tools.
type Server struct {
	orch      *chat.Orchestrator
	kbSession *kb.Session
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(orch *chat.Orchestrator, kbSession *kb.Session) *Server {
	s := &Server{
		orch:      orch,
		kbSession: kbSession,
	}

	s.mcp = server.NewMCPServer(
		"admitchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askAdvisorTool, s.handleAskAdvisor)
	s.mcp.AddTool(runQueryTool, s.handleRunQuery)
	s.mcp.AddTool(getKnowledgeBaseTool, s.handleGetKnowledgeBase)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
