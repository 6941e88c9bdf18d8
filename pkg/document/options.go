package document

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/syntaxdoc/pkg/lexer"
	"github.com/yaklabco/syntaxdoc/pkg/undo"
)

// Option configures a Document.
type Option func(*config)

type config struct {
	text           string
	lexer          lexer.Lexer
	logger         *log.Logger
	undoLimit      int
	coalesceTyping bool
}

func defaultConfig() config {
	return config{
		undoLimit:      undo.DefaultLimit,
		coalesceTyping: true,
	}
}

// WithText sets the initial content.
func WithText(text string) Option {
	return func(c *config) {
		c.text = text
	}
}

// WithLexer sets the lexer used on every re-lex. Without one the document
// has no token index.
func WithLexer(lx lexer.Lexer) Option {
	return func(c *config) {
		c.lexer = lx
	}
}

// WithLogger sets the logger for re-lex diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithUndoLimit bounds the undo and redo stacks. Zero means unbounded.
func WithUndoLimit(n int) Option {
	return func(c *config) {
		c.undoLimit = n
	}
}

// WithCoalesceTyping controls whether adjacent single-line insertions merge
// into one undo unit.
func WithCoalesceTyping(enabled bool) Option {
	return func(c *config) {
		c.coalesceTyping = enabled
	}
}
