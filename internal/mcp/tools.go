package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askAdvisorTool defines the ask_advisor MCP tool.
var askAdvisorTool = mcp.NewTool("ask_advisor",
	mcp.WithDescription("Ask the admissions advisor a question about programs, fees, eligibility, lateral entry, or quotas. Answers are grounded in the admissions knowledge base. Pass the session_id from a previous call to continue the same conversation."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question for the advisor"),
	),
	mcp.WithString("session_id",
		mcp.Description("Conversation to continue; omit to start a new one"),
	),
)

// runQueryTool defines the run_query MCP tool.
var runQueryTool = mcp.NewTool("run_query",
	mcp.WithDescription("Execute a Prolog query directly against the admissions knowledge base and return the raw result. Use get_knowledge_base to see the available predicates."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Prolog query, e.g. fees_quote(btech_cs, 97, indian, 8000, FinalFees)"),
	),
)

// getKnowledgeBaseTool defines the get_knowledge_base MCP tool.
var getKnowledgeBaseTool = mcp.NewTool("get_knowledge_base",
	mcp.WithDescription("Get the full source of the admissions knowledge base: programs, fees, scholarships, eligibility rules, lateral entry, and quotas."),
)
