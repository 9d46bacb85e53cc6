package chat

import "fmt"

// TransportError reports a failure to reach the model capability
// (network, timeout, rate limit). It is recoverable per turn: the turn
// is discarded, history is unchanged, and the user may retry.
type TransportError struct {
	Step string // "synthesize" or "interpret"
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model transport failed during %s: %v", e.Step, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Apology is the generic user-facing message for transport failures.
// Transport errors never leak provider diagnostics to the user.
const Apology = "Sorry, I couldn't reach the assistant just now. Please try again in a moment."

// genericClarification is surfaced when the model neither invoked the
// query action nor produced usable text.
const genericClarification = "I need a bit more information to answer that. Could you rephrase your question, or tell me which program you're asking about?"
