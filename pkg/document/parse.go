package document

import (
	"errors"
	"fmt"
	"time"
)

// ParseStatus is the outcome of one re-lex pass.
type ParseStatus int

const (
	// ParseNone means no lexer is configured and the document has no index.
	ParseNone ParseStatus = iota
	// ParseComplete means the lexer reached the end of the text.
	ParseComplete
	// ParsePartial means the lexer failed; the index holds the tokens
	// produced before the failure.
	ParsePartial
)

func (s ParseStatus) String() string {
	switch s {
	case ParseNone:
		return "none"
	case ParseComplete:
		return "complete"
	case ParsePartial:
		return "partial"
	default:
		return fmt.Sprintf("ParseStatus(%d)", int(s))
	}
}

// ErrLexerOutput is recorded when a lexer emits a token that is empty,
// overlaps its predecessor, or runs past the end of the text.
var ErrLexerOutput = errors.New("lexer produced an invalid token")

// ParseResult describes the most recent re-lex pass.
type ParseResult struct {
	Status   ParseStatus
	Bytes    int
	Tokens   int
	Duration time.Duration

	// Err is the lexer failure for a partial pass.
	Err error
}

// Complete reports whether the pass covered the whole text.
func (r ParseResult) Complete() bool {
	return r.Status == ParseComplete
}

// Partial reports whether the pass stopped early.
func (r ParseResult) Partial() bool {
	return r.Status == ParsePartial
}
