package kb

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(DefaultCorpus())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

func TestNewSessionBadCorpus(t *testing.T) {
	_, err := NewSession(NewCorpus("program(btech_cs, engineering"))
	if err == nil {
		t.Fatal("expected corpus error for malformed rule text")
	}
	if _, ok := err.(*CorpusError); !ok {
		t.Errorf("expected *CorpusError, got %T", err)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"base_fees(btech_cs, F)", "base_fees(btech_cs, F)."},
		{"base_fees(btech_cs, F).", "base_fees(btech_cs, F)."},
		{"  base_fees(btech_cs, F). \n", "base_fees(btech_cs, F)."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExecuteSingleBinding(t *testing.T) {
	s := newTestSession(t)

	out := s.Execute(context.Background(), "base_fees(btech_cs, Fees)")
	if out.Failed() {
		t.Fatalf("unexpected execution error: %v", out.Err)
	}
	if !out.OK {
		t.Fatal("expected at least one solution")
	}
	if len(out.Solutions) != 1 {
		t.Fatalf("expected 1 solution, got %d", len(out.Solutions))
	}
	if got := out.Solutions[0]["Fees"]; got != "12000" {
		t.Errorf("Fees = %q, want %q", got, "12000")
	}
}

func TestExecuteGroundQuery(t *testing.T) {
	s := newTestSession(t)

	out := s.Execute(context.Background(), "program(btech_cs, engineering, computer_science).")
	if out.Failed() {
		t.Fatalf("unexpected execution error: %v", out.Err)
	}
	if !out.OK {
		t.Error("expected ground query to prove true")
	}
	if out.Text() != "true" {
		t.Errorf("Text() = %q, want %q", out.Text(), "true")
	}

	out = s.Execute(context.Background(), "program(btech_cs, management, finance).")
	if out.Failed() {
		t.Fatalf("unexpected execution error: %v", out.Err)
	}
	if out.OK {
		t.Error("expected ground query to prove false")
	}
	if out.Text() != "false" {
		t.Errorf("Text() = %q, want %q", out.Text(), "false")
	}
}

func TestExecuteFeeQuote(t *testing.T) {
	// (12000 * 1 - 5000) * 0.6 = 4200.
	s := newTestSession(t)

	out := s.Execute(context.Background(), "fees_quote(btech_cs, 97, indian, 8000, FinalFees)")
	if out.Failed() {
		t.Fatalf("unexpected execution error: %v", out.Err)
	}
	if len(out.Solutions) != 1 {
		t.Fatalf("expected 1 solution, got %d", len(out.Solutions))
	}
	fees := out.Solutions[0]["FinalFees"]
	if !strings.HasPrefix(fees, "4200") {
		t.Errorf("FinalFees = %q, want 4200", fees)
	}
}

func TestExecuteEnumeratesBacktrackingInOrder(t *testing.T) {
	s := newTestSession(t)

	out := s.Execute(context.Background(), "program(P, engineering, computer_science)")
	if out.Failed() {
		t.Fatalf("unexpected execution error: %v", out.Err)
	}
	if len(out.Solutions) != 2 {
		t.Fatalf("expected 2 solutions, got %d", len(out.Solutions))
	}
	if out.Solutions[0]["P"] != "btech_cs" || out.Solutions[1]["P"] != "mtech_cs" {
		t.Errorf("solutions out of clause order: %v", out.Solutions)
	}
}

func TestExecuteReportsVarsInQueryOrder(t *testing.T) {
	s := newTestSession(t)

	out := s.Execute(context.Background(), "program(Program, Stream, Specialization)")
	if out.Failed() {
		t.Fatalf("unexpected execution error: %v", out.Err)
	}
	want := []string{"Program", "Stream", "Specialization"}
	if len(out.Vars) != len(want) {
		t.Fatalf("Vars = %v, want %v", out.Vars, want)
	}
	for i, v := range want {
		if out.Vars[i] != v {
			t.Fatalf("Vars = %v, want %v", out.Vars, want)
		}
	}
	first := "Program = btech_cs, Stream = engineering, Specialization = computer_science"
	if !strings.HasPrefix(out.Text(), first) {
		t.Errorf("Text() starts with %q, want %q", out.Text(), first)
	}
}

func TestQueryVariables(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"fees_quote(btech_cs, 97, indian, 8000, FinalFees).", []string{"FinalFees"}},
		{"program(Program, Stream, Specialization)", []string{"Program", "Stream", "Specialization"}},
		{"base_fees(P, Fees), base_fees(P, Fees)", []string{"P", "Fees"}},
		{"program(btech_cs, engineering, computer_science).", nil},
		{"quota_percentage(sc, _Pct)", []string{"_Pct"}},
	}
	for _, tt := range tests {
		got := queryVariables(tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("queryVariables(%q) = %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("queryVariables(%q) = %v, want %v", tt.query, got, tt.want)
				break
			}
		}
	}
}

func TestExecuteIdempotent(t *testing.T) {
	s := newTestSession(t)

	first := s.Execute(context.Background(), "base_fees(Program, Fees)")
	second := s.Execute(context.Background(), "base_fees(Program, Fees)")
	if first.Failed() || second.Failed() {
		t.Fatalf("unexpected execution errors: %v, %v", first.Err, second.Err)
	}
	if len(first.Solutions) != len(second.Solutions) {
		t.Fatalf("solution counts differ: %d vs %d", len(first.Solutions), len(second.Solutions))
	}
	for i := range first.Solutions {
		for _, v := range first.Vars {
			if first.Solutions[i][v] != second.Solutions[i][v] {
				t.Errorf("solution %d differs for %s: %q vs %q",
					i, v, first.Solutions[i][v], second.Solutions[i][v])
			}
		}
	}
}

func TestExecuteUnknownPredicate(t *testing.T) {
	s := newTestSession(t)

	out := s.Execute(context.Background(), "tuition_fees(btech_cs, F)")
	if !out.Failed() {
		t.Fatal("expected an execution error for an undefined predicate")
	}
	if out.Err.Kind != ErrorUnknownPredicate {
		t.Errorf("error kind = %q, want %q", out.Err.Kind, ErrorUnknownPredicate)
	}

	// The session must remain usable after a failed query.
	out = s.Execute(context.Background(), "base_fees(btech_ai, Fees)")
	if out.Failed() {
		t.Fatalf("session unusable after error: %v", out.Err)
	}
	if got := out.Solutions[0]["Fees"]; got != "14000" {
		t.Errorf("Fees = %q, want %q", got, "14000")
	}
}

func TestExecuteSyntaxError(t *testing.T) {
	s := newTestSession(t)

	out := s.Execute(context.Background(), "base_fees(btech_cs")
	if !out.Failed() {
		t.Fatal("expected an execution error for malformed query text")
	}
	if out.Err.Kind != ErrorSyntax && out.Err.Kind != ErrorRuntime {
		t.Errorf("unexpected error kind %q", out.Err.Kind)
	}
}

func TestExecuteTimeout(t *testing.T) {
	s := newTestSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	// Give the deadline a moment to pass so the select takes the
	// ctx branch deterministically.
	time.Sleep(time.Millisecond)

	out := s.Execute(ctx, "base_fees(btech_cs, Fees)")
	if !out.Failed() || out.Err.Kind != ErrorTimeout {
		t.Fatalf("expected timeout outcome, got %+v", out)
	}

	// The engine is rebuilt and the session stays usable.
	out = s.Execute(context.Background(), "base_fees(btech_cs, Fees)")
	if out.Failed() {
		t.Fatalf("session unusable after timeout: %v", out.Err)
	}
}

func TestOutcomeText(t *testing.T) {
	out := &Outcome{
		Vars: []string{"Program", "Fees"},
		Solutions: []Solution{
			{"Program": "btech_cs", "Fees": "12000"},
			{"Program": "btech_ai", "Fees": "14000"},
		},
		OK: true,
	}
	want := "Program = btech_cs, Fees = 12000\nProgram = btech_ai, Fees = 14000"
	if got := out.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	failed := &Outcome{Err: &ExecError{Kind: ErrorSyntax, Message: "operator expected"}}
	if got := failed.Text(); got != "error (syntax): operator expected" {
		t.Errorf("Text() = %q", got)
	}
}
