package kb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCorpus(t *testing.T) {
	c := DefaultCorpus()
	if !strings.Contains(c.Source(), "base_fees(btech_cs, 12000).") {
		t.Error("embedded corpus missing base fee facts")
	}
	if !strings.Contains(c.Source(), "fees_quote(") {
		t.Error("embedded corpus missing fee quote rule")
	}
}

func TestLoadCorpusGlobs(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a_programs.pl", "program(bsc_math, science, mathematics).\n")
	write("b_fees.pl", "base_fees(bsc_math, 9000).\n")

	c, err := LoadCorpus([]string{filepath.Join(dir, "*.pl")})
	if err != nil {
		t.Fatalf("LoadCorpus failed: %v", err)
	}

	// Files concatenate in sorted path order.
	programs := strings.Index(c.Source(), "program(bsc_math")
	fees := strings.Index(c.Source(), "base_fees(bsc_math")
	if programs < 0 || fees < 0 {
		t.Fatalf("corpus missing loaded rules: %q", c.Source())
	}
	if programs > fees {
		t.Error("corpus files not concatenated in sorted order")
	}
}

func TestLoadCorpusNoMatches(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadCorpus([]string{filepath.Join(dir, "*.pl")}); err == nil {
		t.Error("expected error when no corpus files match")
	}
}

func TestLoadCorpusEmptyPatterns(t *testing.T) {
	c, err := LoadCorpus(nil)
	if err != nil {
		t.Fatalf("LoadCorpus(nil) failed: %v", err)
	}
	if c.Source() != DefaultCorpus().Source() {
		t.Error("expected embedded default corpus")
	}
}
