package kb

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

//go:embed corpus/admissions.pl
var defaultCorpus string

// Corpus is the fixed fact-and-rule text loaded into a session. It is
// immutable: queries derive from it but never change it.
type Corpus struct {
	source string
}

// DefaultCorpus returns the embedded admissions/fee rule set.
func DefaultCorpus() *Corpus {
	return &Corpus{source: defaultCorpus}
}

// NewCorpus wraps raw rule text as a corpus.
func NewCorpus(source string) *Corpus {
	return &Corpus{source: source}
}

// LoadCorpus reads every file matched by the given glob patterns and
// concatenates them, in sorted path order, into a single corpus. With no
// patterns it falls back to the embedded default.
func LoadCorpus(patterns []string) (*Corpus, error) {
	if len(patterns) == 0 {
		return DefaultCorpus(), nil
	}

	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad corpus pattern %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no corpus files matched %v", patterns)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading corpus file %s: %w", path, err)
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return &Corpus{source: b.String()}, nil
}

// Source returns the full rule text. The synthesizer and interpreter
// embed it in their prompts so the model sees the same rules the engine
// executes.
func (c *Corpus) Source() string { return c.source }
