package chat

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nmehta6/admitchat/internal/kb"
	"github.com/nmehta6/admitchat/internal/llm"
)

// Synthesis is the outcome of one synthesis step: either a query to
// execute, or a clarifying question to surface to the user verbatim.
// Exactly one of the two is set.
type Synthesis struct {
	Query         string
	Clarification string
}

// HasQuery reports whether the model proposed a query this turn.
func (s *Synthesis) HasQuery() bool { return s.Query != "" }

// Synthesizer asks the model to convert a user utterance into one
// structured query, or to ask for missing information instead.
type Synthesizer struct {
	provider llm.Provider
	model    string
	system   string
	usage    *llm.Usage
}

// NewSynthesizer creates a synthesizer grounded in the given corpus.
func NewSynthesizer(provider llm.Provider, model string, corpus *kb.Corpus, usage *llm.Usage) *Synthesizer {
	return &Synthesizer{
		provider: provider,
		model:    model,
		system:   synthesisSystemPrompt(corpus),
		usage:    usage,
	}
}

type queryArguments struct {
	Query string `json:"query"`
}

// Synthesize sends the conversation so far plus the new utterance and
// returns the model's proposal. The query tool is offered, not forced:
// declining to invoke it is the clarification path, a valid outcome
// rather than a failure. A transport failure returns a *TransportError;
// a malformed tool payload degrades to the clarification path.
func (s *Synthesizer) Synthesize(ctx context.Context, history []Utterance, userText string) (*Synthesis, error) {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: s.system}}
	for _, u := range history {
		messages = append(messages, llm.Message{Role: u.Role, Content: u.Text})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userText})

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:      s.model,
		Messages:   messages,
		Tools:      []llm.Tool{queryTool()},
		ToolChoice: llm.ToolChoiceAuto(),
	})
	if err != nil {
		return nil, &TransportError{Step: "synthesize", Err: err}
	}
	if s.usage != nil {
		s.usage.Record(s.model, resp)
	}

	for _, call := range resp.ToolCalls {
		if call.Name != QueryToolName {
			continue
		}
		var args queryArguments
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			// Contract violation: treat as if no action was invoked.
			break
		}
		if q := strings.TrimSpace(args.Query); q != "" {
			return &Synthesis{Query: q}, nil
		}
		break
	}

	if text := strings.TrimSpace(resp.Content); text != "" {
		return &Synthesis{Clarification: text}, nil
	}
	return &Synthesis{Clarification: genericClarification}, nil
}
