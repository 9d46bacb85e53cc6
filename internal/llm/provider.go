package llm

import "context"

// Provider defines the interface for LLM providers. Implementations
// must surface declared tools to the model and report any tool
// invocations made in the response.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
