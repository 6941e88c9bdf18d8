package runner

import (
	"github.com/yaklabco/syntaxdoc/pkg/document"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// FileOutcome is the result of tokenizing one file.
type FileOutcome struct {
	// Path is the absolute file path.
	Path string

	// Language is the detected or configured language identifier.
	Language string

	// Content is the file content as read.
	Content []byte

	// Tokens are in file offsets. For Markdown they come from every SQL
	// fenced block, in document order.
	Tokens []token.Token

	// Parse summarizes the lexer pass. For Markdown it aggregates all blocks.
	Parse document.ParseResult

	// Blocks is the number of SQL blocks found in a Markdown file.
	Blocks int

	// Error is set when the file could not be read.
	Error error
}

// Stats aggregates counters across a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int
	FilesPartial    int
	TokensTotal     int
	Bytes           int
	TokensByKind    map[token.Kind]int
	FilesByLanguage map[string]int
}

// Result is the outcome of a run, ordered by path.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

func newStats(discovered int) Stats {
	return Stats{
		FilesDiscovered: discovered,
		TokensByKind:    make(map[token.Kind]int),
		FilesByLanguage: make(map[string]int),
	}
}

func (s *Stats) accumulate(outcome FileOutcome) {
	if outcome.Error != nil {
		s.FilesErrored++
		return
	}

	s.FilesProcessed++
	s.Bytes += len(outcome.Content)
	s.FilesByLanguage[outcome.Language]++
	if outcome.Parse.Partial() {
		s.FilesPartial++
	}
	for _, tok := range outcome.Tokens {
		s.TokensTotal++
		s.TokensByKind[tok.Kind]++
	}
}

// HasErrors reports whether any file failed to read or lexed partially.
func (r *Result) HasErrors() bool {
	return r.Stats.FilesErrored > 0 || r.Stats.FilesPartial > 0
}
