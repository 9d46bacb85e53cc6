package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// Tool declares a callable action the model may invoke. Parameters is a
// JSON schema object describing the action's arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolChoice controls whether the model is offered, denied, or forced
// into invoking a declared tool.
type ToolChoice struct {
	Mode string // "auto" or "none"; ignored when Name is set
	Name string // force invocation of this tool
}

// ToolChoiceAuto offers the declared tools and lets the model decide.
func ToolChoiceAuto() *ToolChoice { return &ToolChoice{Mode: "auto"} }

// ForceTool requires the model to invoke the named tool.
func ForceTool(name string) *ToolChoice { return &ToolChoice{Name: name} }

// ToolCall is a tool invocation selected by the model. Arguments is the
// raw JSON payload; callers validate it against the declared schema.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	Tools       []Tool
	ToolChoice  *ToolChoice
}

// CompletionResponse contains the result of an LLM completion request.
// A response carries plain text, tool calls, or both.
type CompletionResponse struct {
	Content      string
	ToolCalls    []ToolCall
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
