// Package document implements an editable text whose token index is rebuilt
// by a lexer after every change.
//
// Every mutation validates its range, updates the buffer, records an undo
// change, and then re-lexes the whole text before returning. The new index
// is published atomically together with the text it was built from and the
// parse outcome, so queries never observe a half-built index or pair an
// index with the wrong text. Queries take no lock; mutations are serialized.
package document

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/pkg/edit"
	"github.com/yaklabco/syntaxdoc/pkg/lexer"
	"github.com/yaklabco/syntaxdoc/pkg/token"
	"github.com/yaklabco/syntaxdoc/pkg/undo"
)

var (
	// ErrInvalidOffset is returned when an edit starts outside the text.
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrInvalidRange is returned when an edit's length is negative or runs
	// past the end of the text.
	ErrInvalidRange = errors.New("invalid range")
)

// Document is an editable text with a token index.
type Document struct {
	mu      sync.Mutex
	buf     *Buffer
	lexer   lexer.Lexer
	history *undo.Manager
	logger  *log.Logger

	snap atomic.Pointer[View]
}

// View is the state published by one re-lex pass: the text, the index
// built from it, and the parse outcome. A View is immutable.
type View struct {
	Text  string
	Index *token.Index
	Parse ParseResult
}

// TokenAt returns the token covering pos, end offset included. It reports
// false for positions outside the text, in gaps, or when there is no index.
func (v *View) TokenAt(pos int) (token.Token, bool) {
	if v.Index == nil || pos < 0 || pos > len(v.Text) {
		return token.Token{}, false
	}
	return v.Index.TokenAt(pos)
}

// TokensInRange yields, in ascending order, the tokens intersecting
// [start, end).
func (v *View) TokensInRange(start, end int) iter.Seq[token.Token] {
	return v.Index.Range(start, end)
}

// New creates a document and lexes its initial text.
func New(opts ...Option) *Document {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}

	d := &Document{
		buf:   NewBuffer(cfg.text),
		lexer: cfg.lexer,
		history: undo.NewManager(
			undo.WithLimit(cfg.undoLimit),
			undo.WithCoalesceTyping(cfg.coalesceTyping),
		),
		logger: cfg.logger,
	}
	d.relex()
	return d
}

// Insert adds text at offset.
func (d *Document) Insert(offset int, text string) error {
	return d.Edit(edit.Insert(offset, text), true)
}

// Remove deletes length bytes at offset.
func (d *Document) Remove(offset, length int) error {
	return d.Edit(edit.Remove(offset, length), true)
}

// Replace substitutes length bytes at offset with text.
func (d *Document) Replace(offset, length int, text string) error {
	return d.Edit(edit.Replace(offset, length, text), true)
}

// Edit applies one edit. Insignificant edits are folded into the previous
// undo unit instead of becoming undoable on their own.
//
// An invalid edit returns ErrInvalidOffset or ErrInvalidRange and leaves the
// document unchanged.
func (d *Document) Edit(e edit.TextEdit, significant bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := edit.Validate(e, d.buf.Len()); err != nil {
		return classify(err)
	}
	// A no-op leaves the text, and so the index, as they are. Skipping it
	// also keeps it out of the undo history.
	if e.IsNoop() {
		return nil
	}

	err := d.apply(e, significant)
	d.relex()
	return err
}

// Apply applies a batch of edits whose offsets all refer to the current
// text. The batch becomes a single undo unit and triggers one re-lex.
// Overlapping edits are rejected with an *edit.ConflictError.
func (d *Document) Apply(edits []edit.TextEdit) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	prepared, err := edit.Prepare(edits, d.buf.Len())
	if err != nil {
		return classify(err)
	}
	if len(prepared) == 0 {
		return nil
	}

	d.history.Begin()
	defer d.relex()
	defer d.history.End()

	// Back to front keeps the remaining offsets valid.
	for i := len(prepared) - 1; i >= 0; i-- {
		if err := d.apply(prepared[i], true); err != nil {
			return err
		}
	}
	return nil
}

// apply mutates the buffer with a validated edit and records it.
func (d *Document) apply(e edit.TextEdit, significant bool) error {
	removed, err := d.buf.Slice(e.Offset, e.Length)
	if err != nil {
		return classify(err)
	}
	if err := d.buf.Replace(e.Offset, e.Length, e.NewText); err != nil {
		return classify(err)
	}
	d.history.Add(undo.Change{Offset: e.Offset, Removed: removed, Inserted: e.NewText}, significant)
	return nil
}

// SetText replaces the whole text and discards the undo history, so
// history never leaks from one loaded text into another.
func (d *Document) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buf.Set(text)
	d.history.Clear()
	d.relex()
}

// SetLexer swaps the lexer and re-lexes. A nil lexer removes the index.
func (d *Document) SetLexer(lx lexer.Lexer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lexer = lx
	d.relex()
}

// View returns the current text, index and parse outcome as one consistent
// state. Callers that read more than one of them should use a single View.
func (d *Document) View() *View {
	return d.snap.Load()
}

// Text returns the content.
func (d *Document) Text() string {
	return d.snap.Load().Text
}

// Len returns the content length in bytes.
func (d *Document) Len() int {
	return len(d.snap.Load().Text)
}

// Index returns the current token index, or nil when the document has no
// lexer. The index is immutable.
func (d *Document) Index() *token.Index {
	return d.snap.Load().Index
}

// LastParse describes the most recent re-lex pass.
func (d *Document) LastParse() ParseResult {
	return d.snap.Load().Parse
}

// TokenAt returns the token covering pos, end offset included. It reports
// false for positions outside the text, in gaps, or when there is no index.
func (d *Document) TokenAt(pos int) (token.Token, bool) {
	return d.snap.Load().TokenAt(pos)
}

// TokensInRange yields, in ascending order, the tokens intersecting
// [start, end). The sequence reads the index current at the time of the
// call and may be ranged over more than once.
func (d *Document) TokensInRange(start, end int) iter.Seq[token.Token] {
	return d.snap.Load().TokensInRange(start, end)
}

// Undo reverts the newest undo unit and re-lexes. It reports false when
// there was nothing to undo. On error the text is left unchanged.
func (d *Document) Undo() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ok, err := d.history.Undo(d.buf)
	if ok || err != nil {
		d.relex()
	}
	return ok, err
}

// Redo reapplies the newest undone unit and re-lexes. It reports false
// when there was nothing to redo. On error the text is left unchanged.
func (d *Document) Redo() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ok, err := d.history.Redo(d.buf)
	if ok || err != nil {
		d.relex()
	}
	return ok, err
}

// ClearUndo discards the undo and redo stacks.
func (d *Document) ClearUndo() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history.Clear()
}

// CanUndo reports whether Undo would change the document.
func (d *Document) CanUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.CanUndo()
}

// CanRedo reports whether Redo would change the document.
func (d *Document) CanRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.CanRedo()
}

// SealUndo ends the current typing run so the next insertion starts a new
// undo unit.
func (d *Document) SealUndo() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history.Seal()
}

// relex rebuilds and publishes the index. Lexer failures are logged and
// degrade to a partial index; they never reach the caller.
func (d *Document) relex() {
	src := d.buf.Bytes()
	text := string(src)
	if d.lexer == nil {
		d.snap.Store(&View{Text: text, Parse: ParseResult{Status: ParseNone, Bytes: len(src)}})
		return
	}

	began := time.Now()
	tokens, err := collect(d.lexer, src)
	result := ParseResult{
		Status:   ParseComplete,
		Bytes:    len(src),
		Tokens:   len(tokens),
		Duration: time.Since(began),
	}

	if err != nil {
		result.Status = ParsePartial
		result.Err = err
		d.logger.Error("lexer failed",
			logging.FieldError, err,
			logging.FieldBytes, result.Bytes,
			logging.FieldTokens, result.Tokens)
	} else {
		d.logger.Debug("parsed",
			logging.FieldBytes, result.Bytes,
			logging.FieldTokens, result.Tokens,
			logging.FieldDuration, result.Duration)
	}

	d.snap.Store(&View{Text: text, Index: token.NewIndex(tokens), Parse: result})
}

// collect drains the lexer. On failure it returns the valid tokens read so
// far along with the error.
func collect(lx lexer.Lexer, src []byte) (tokens []token.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lexer panic: %v", r)
		}
	}()

	lx.Reset(src)
	end := 0
	for {
		tok, nextErr := lx.Next()
		if errors.Is(nextErr, io.EOF) {
			return tokens, nil
		}
		if nextErr != nil {
			return tokens, nextErr
		}
		if tok.Length <= 0 || tok.Start < end || tok.End() > len(src) {
			return tokens, fmt.Errorf("%w: %s after offset %d", ErrLexerOutput, tok, end)
		}
		tokens = append(tokens, tok)
		end = tok.End()
	}
}

func classify(err error) error {
	var verr *edit.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	if verr.Problem == edit.ProblemOffset {
		return fmt.Errorf("%w: %w", ErrInvalidOffset, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidRange, err)
}
