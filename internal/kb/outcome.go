package kb

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a failed query execution.
type ErrorKind string

const (
	ErrorSyntax           ErrorKind = "syntax"
	ErrorUnknownPredicate ErrorKind = "unknown_predicate"
	ErrorTimeout          ErrorKind = "timeout"
	ErrorRuntime          ErrorKind = "runtime"
)

// ExecError carries the engine's diagnostic for a failed execution.
type ExecError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Solution is one binding set: an assignment of values to the free
// variables of a query, produced by one answer of the engine's
// backtracking search. Values are the written form of the bound terms.
type Solution map[string]string

// Outcome is the tagged result of executing one query: either an ordered
// sequence of solutions (possibly empty), or an execution error. It is
// never mutated after Execute returns it.
type Outcome struct {
	Query     string     `json:"query"`
	Vars      []string   `json:"vars,omitempty"`
	Solutions []Solution `json:"solutions,omitempty"`
	OK        bool       `json:"ok"`
	Err       *ExecError `json:"error,omitempty"`
}

// Failed reports whether the execution ended in an engine error, as
// opposed to a clean true/false/bindings result.
func (o *Outcome) Failed() bool { return o.Err != nil }

// Text renders the outcome the way it is shown to the language model:
// one line per solution with bindings in query-variable order, or the
// engine's truth value, or the diagnostic message.
func (o *Outcome) Text() string {
	if o.Err != nil {
		return "error (" + string(o.Err.Kind) + "): " + o.Err.Message
	}
	if len(o.Vars) == 0 {
		if o.OK {
			return "true"
		}
		return "false"
	}
	if len(o.Solutions) == 0 {
		return "false"
	}

	var b strings.Builder
	for i, sol := range o.Solutions {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, v := range o.Vars {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(v)
			b.WriteString(" = ")
			b.WriteString(sol[v])
		}
	}
	return b.String()
}
