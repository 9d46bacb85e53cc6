package llm

import "sync"

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// priceTable maps model identifiers to their pricing.
var priceTable = map[string]modelPricing{
	// OpenAI models
	"gpt-4o":      {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini": {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gpt-4":       {InputPerMillion: 30.00, OutputPerMillion: 60.00},

	// Anthropic models
	"claude-sonnet-4-5-20250929": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"claude-haiku-4-5-20251001":  {InputPerMillion: 0.80, OutputPerMillion: 4.00},
}

// EstimateCost returns the estimated cost in USD for the given model and token counts.
// Returns 0 if the model is not found in the price table.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}

	inputCost := float64(inputTokens) / 1_000_000.0 * pricing.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000.0 * pricing.OutputPerMillion
	return inputCost + outputCost
}

// Usage accumulates token counts and estimated cost across the model
// round trips of a conversation. Safe for concurrent use.
type Usage struct {
	mu           sync.Mutex
	inputTokens  int
	outputTokens int
	costUSD      float64
	calls        int
}

// Record adds one completion's usage to the running totals.
func (u *Usage) Record(model string, resp *CompletionResponse) {
	if resp == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inputTokens += resp.InputTokens
	u.outputTokens += resp.OutputTokens
	u.costUSD += EstimateCost(model, resp.InputTokens, resp.OutputTokens)
	u.calls++
}

// Totals returns the accumulated token counts, cost, and call count.
func (u *Usage) Totals() (inputTokens, outputTokens int, costUSD float64, calls int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.inputTokens, u.outputTokens, u.costUSD, u.calls
}
