package chat

import (
	"context"
	"strings"

	"github.com/nmehta6/admitchat/internal/kb"
	"github.com/nmehta6/admitchat/internal/llm"
)

// Interpreter asks the model to turn an execution outcome into a
// grounded natural-language answer. It always runs after an execution;
// it never sees a turn that skipped the knowledge base.
type Interpreter struct {
	provider llm.Provider
	model    string
	system   string
	usage    *llm.Usage
}

// NewInterpreter creates an interpreter grounded in the given corpus.
func NewInterpreter(provider llm.Provider, model string, corpus *kb.Corpus, usage *llm.Usage) *Interpreter {
	return &Interpreter{
		provider: provider,
		model:    model,
		system:   interpretationSystemPrompt(corpus),
		usage:    usage,
	}
}

// Interpret explains the outcome of the executed query in terms of the
// user's original question. Failure outcomes are explained in plain
// language with a suggested rephrasing; they are not swallowed.
func (i *Interpreter) Interpret(ctx context.Context, userText, query string, outcome *kb.Outcome) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: i.system},
		{Role: llm.RoleUser, Content: userText},
		{Role: llm.RoleAssistant, Content: "Generated query: " + query},
		{Role: llm.RoleAssistant, Content: "Query result: " + outcome.Text()},
		{Role: llm.RoleUser, Content: "Please provide a helpful response based on this information."},
	}

	resp, err := i.provider.Complete(ctx, llm.CompletionRequest{
		Model:    i.model,
		Messages: messages,
	})
	if err != nil {
		return "", &TransportError{Step: "interpret", Err: err}
	}
	if i.usage != nil {
		i.usage.Record(i.model, resp)
	}

	if text := strings.TrimSpace(resp.Content); text != "" {
		return text, nil
	}
	// The model returned nothing usable; fall back to the raw result so
	// the answer still reflects the execution record.
	return "The knowledge base returned: " + outcome.Text(), nil
}
