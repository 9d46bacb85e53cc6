package kb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ichiban/prolog"
)

// DefaultMaxSolutions bounds how many binding sets a single query may
// produce. Backtracking is drained eagerly into one ordered list, so an
// unbounded enumeration would hang the turn.
const DefaultMaxSolutions = 64

// CorpusError is the fatal startup error for a corpus that fails to
// parse. No session exists after it.
type CorpusError struct {
	Err error
}

func (e *CorpusError) Error() string { return "loading corpus: " + e.Err.Error() }

func (e *CorpusError) Unwrap() error { return e.Err }

// Session owns one logic engine loaded with a fixed corpus and executes
// one query at a time against it. The corpus is read-only for the whole
// session lifetime; Execute is mutually exclusive.
type Session struct {
	mu           sync.Mutex
	corpus       *Corpus
	maxSolutions int
	interp       *prolog.Interpreter
	stale        bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxSolutions overrides the per-query solution cap.
func WithMaxSolutions(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxSolutions = n
		}
	}
}

// NewSession loads the corpus into a fresh engine. A corpus that fails
// to parse is a startup error, not a per-query error.
func NewSession(corpus *Corpus, opts ...SessionOption) (*Session, error) {
	s := &Session{
		corpus:       corpus,
		maxSolutions: DefaultMaxSolutions,
	}
	for _, opt := range opts {
		opt(s)
	}

	interp, err := newInterpreter(corpus)
	if err != nil {
		return nil, &CorpusError{Err: err}
	}
	s.interp = interp
	return s, nil
}

func newInterpreter(corpus *Corpus) (*prolog.Interpreter, error) {
	interp := prolog.New(nil, nil)
	if err := interp.Exec(corpus.Source()); err != nil {
		return nil, err
	}
	return interp, nil
}

// NormalizeQuery trims whitespace and appends the statement terminator
// if it is missing. No other repair is performed.
func NormalizeQuery(query string) string {
	q := strings.TrimSpace(query)
	if q != "" && !strings.HasSuffix(q, ".") {
		q += "."
	}
	return q
}

// Execute runs one query and returns its outcome. Engine failures
// (syntax errors, unknown predicates, runtime exceptions) are reported
// in the outcome, never as a panic or a dead session: the session stays
// usable for the next query. The context deadline bounds the wall time;
// on expiry the outcome carries a timeout error and the engine is
// rebuilt from the corpus before the next query runs.
func (s *Session) Execute(ctx context.Context, query string) *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := NormalizeQuery(query)
	out := &Outcome{Query: q}
	if q == "" {
		out.Err = &ExecError{Kind: ErrorSyntax, Message: "empty query"}
		return out
	}
	if ctx.Err() != nil {
		out.Err = &ExecError{Kind: ErrorTimeout, Message: "query execution exceeded the deadline"}
		return out
	}

	if s.stale {
		interp, err := newInterpreter(s.corpus)
		if err != nil {
			// The corpus parsed at startup; failing now means the
			// engine itself is wedged.
			out.Err = &ExecError{Kind: ErrorRuntime, Message: err.Error()}
			return out
		}
		s.interp = interp
		s.stale = false
	}

	done := make(chan *Outcome, 1)
	go func() {
		done <- run(s.interp, q, s.maxSolutions)
	}()

	select {
	case result := <-done:
		result.Query = q
		return result
	case <-ctx.Done():
		// The engine is not cancellable mid-flight; abandon it and
		// rebuild before the next query.
		s.stale = true
		out.Err = &ExecError{Kind: ErrorTimeout, Message: "query execution exceeded the deadline"}
		return out
	}
}

func run(interp *prolog.Interpreter, query string, maxSolutions int) *Outcome {
	out := &Outcome{}

	sols, err := interp.Query(query)
	if err != nil {
		out.Err = classify(err)
		return out
	}
	defer sols.Close()

	for sols.Next() {
		bound := map[string]prolog.TermString{}
		if err := sols.Scan(bound); err != nil {
			out.Err = classify(err)
			return out
		}
		if out.Vars == nil {
			out.Vars = orderVars(query, bound)
		}
		sol := make(Solution, len(bound))
		for name, term := range bound {
			sol[name] = string(term)
		}
		out.Solutions = append(out.Solutions, sol)
		out.OK = true
		if len(out.Solutions) >= maxSolutions {
			break
		}
	}
	if err := sols.Err(); err != nil {
		out.Err = classify(err)
		out.Solutions = nil
		out.OK = false
		return out
	}
	if len(out.Vars) == 0 {
		// Ground query: OK already reflects whether it proved true.
		out.Solutions = nil
	}
	return out
}

// orderVars arranges the scanned variable names in the order they first
// appear in the query text, so solutions render in query-variable order.
// A scanned name the query text does not contain sorts after the rest.
func orderVars(query string, bound map[string]prolog.TermString) []string {
	vars := make([]string, 0, len(bound))
	for _, name := range queryVariables(query) {
		if _, ok := bound[name]; ok {
			vars = append(vars, name)
		}
	}
	if len(vars) < len(bound) {
		var rest []string
		for name := range bound {
			found := false
			for _, v := range vars {
				if v == name {
					found = true
					break
				}
			}
			if !found {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		vars = append(vars, rest...)
	}
	return vars
}

// queryVariables extracts the distinct variable tokens of a query in
// order of first appearance. A variable is a maximal identifier run
// starting with an uppercase letter or an underscore.
func queryVariables(query string) []string {
	var vars []string
	seen := map[string]bool{}
	for i := 0; i < len(query); {
		if !isIdentByte(query[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(query) && isIdentByte(query[j]) {
			j++
		}
		tok := query[i:j]
		i = j
		if c := tok[0]; (c >= 'A' && c <= 'Z') || c == '_' {
			if !seen[tok] {
				seen[tok] = true
				vars = append(vars, tok)
			}
		}
	}
	return vars
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// classify maps an engine diagnostic onto the error taxonomy. The
// engine reports ISO error terms as text; matching on them is the only
// signal available.
func classify(err error) *ExecError {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "existence_error"):
		return &ExecError{Kind: ErrorUnknownPredicate, Message: msg}
	case strings.Contains(msg, "syntax_error") || strings.Contains(msg, "unexpected"):
		return &ExecError{Kind: ErrorSyntax, Message: msg}
	default:
		return &ExecError{Kind: ErrorRuntime, Message: msg}
	}
}

// Corpus returns the corpus this session was loaded with.
func (s *Session) Corpus() *Corpus { return s.corpus }
