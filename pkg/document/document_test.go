package document_test

import (
	"errors"
	"io"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/pkg/document"
	"github.com/yaklabco/syntaxdoc/pkg/edit"
	"github.com/yaklabco/syntaxdoc/pkg/lexer"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

const selectAll = "SELECT * FROM t"

func newDoc(text string, opts ...document.Option) *document.Document {
	base := []document.Option{
		document.WithText(text),
		document.WithLexer(lexer.NewSQL(lexer.SQLOptions{})),
		document.WithLogger(logging.Discard()),
	}
	return document.New(append(base, opts...)...)
}

func freshTokens(t *testing.T, text string) []token.Token {
	t.Helper()
	tokens, err := lexer.All(lexer.NewSQL(lexer.SQLOptions{}), []byte(text))
	require.NoError(t, err)
	return tokens
}

func TestSelectScenario(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)

	tok, ok := doc.TokenAt(3)
	require.True(t, ok)
	assert.Equal(t, token.New(token.KindKeyword, 0, 6), tok)

	tok, ok = doc.TokenAt(7)
	require.True(t, ok)
	assert.Equal(t, token.New(token.KindOperator, 7, 1), tok)

	assert.Equal(t, []token.Token{token.New(token.KindKeyword, 0, 6)},
		slices.Collect(doc.TokensInRange(0, 6)))

	assert.True(t, doc.LastParse().Complete())
	assert.Equal(t, 4, doc.LastParse().Tokens)
}

func TestEmptyDocument(t *testing.T) {
	t.Parallel()

	doc := newDoc("")
	_, ok := doc.TokenAt(0)
	assert.False(t, ok)
	assert.Empty(t, slices.Collect(doc.TokensInRange(0, 0)))
	assert.NotNil(t, doc.Index())
	assert.Equal(t, 0, doc.Index().Len())
}

func TestTokenAtOutsideText(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	for _, pos := range []int{-1, len(selectAll) + 1, 1000} {
		_, ok := doc.TokenAt(pos)
		assert.False(t, ok, "pos %d", pos)
	}
	tok, ok := doc.TokenAt(len(selectAll))
	require.True(t, ok, "end offset of the last token is inclusive")
	assert.Equal(t, token.KindIdentifier, tok.Kind)
}

func TestInsertUndoRestoresBoundaries(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	before := doc.Index().Tokens()

	require.NoError(t, doc.Insert(6, "X"))
	assert.Equal(t, "SELECTX * FROM t", doc.Text())
	tok, ok := doc.TokenAt(3)
	require.True(t, ok)
	assert.Equal(t, token.New(token.KindIdentifier, 0, 7), tok)

	ok, err := doc.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, selectAll, doc.Text())
	assert.Equal(t, before, doc.Index().Tokens())

	ok, err = doc.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "SELECTX * FROM t", doc.Text())
	assert.Equal(t, freshTokens(t, "SELECTX * FROM t"), doc.Index().Tokens())
}

func TestUndoRedoEmptyIsNoop(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	ok, err := doc.Undo()
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = doc.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, selectAll, doc.Text())
}

func TestInvalidEditsLeaveDocumentUnchanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		run     func(*document.Document) error
		wantErr error
	}{
		{"insert before start", func(d *document.Document) error { return d.Insert(-1, "x") }, document.ErrInvalidOffset},
		{"insert past end", func(d *document.Document) error { return d.Insert(len(selectAll)+1, "x") }, document.ErrInvalidOffset},
		{"remove past end", func(d *document.Document) error { return d.Remove(10, 10) }, document.ErrInvalidRange},
		{"negative length", func(d *document.Document) error { return d.Replace(2, -1, "x") }, document.ErrInvalidRange},
		{
			"batch with one bad edit",
			func(d *document.Document) error {
				return d.Apply([]edit.TextEdit{edit.Insert(0, "x"), edit.Remove(14, 5)})
			},
			document.ErrInvalidRange,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := newDoc(selectAll)
			before := doc.Index()

			err := tc.run(doc)
			require.ErrorIs(t, err, tc.wantErr)
			var verr *edit.ValidationError
			assert.ErrorAs(t, err, &verr)

			assert.Equal(t, selectAll, doc.Text())
			assert.Same(t, before, doc.Index(), "no re-lex on a rejected edit")
			assert.False(t, doc.CanUndo())
		})
	}
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	before := doc.Index().Tokens()

	require.NoError(t, doc.Insert(9, "DISTINCT "))
	require.NoError(t, doc.Remove(9, len("DISTINCT ")))

	assert.Equal(t, selectAll, doc.Text())
	assert.Equal(t, before, doc.Index().Tokens())
}

func TestApplyIsOneUndoUnit(t *testing.T) {
	t.Parallel()

	doc := newDoc("SELECT a FROM t")
	require.NoError(t, doc.Apply([]edit.TextEdit{
		edit.Replace(7, 1, "id, name"),
		edit.Replace(14, 1, "users"),
	}))
	assert.Equal(t, "SELECT id, name FROM users", doc.Text())
	assert.Equal(t, freshTokens(t, doc.Text()), doc.Index().Tokens())

	ok, err := doc.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "SELECT a FROM t", doc.Text())
	assert.False(t, doc.CanUndo())
}

func TestApplyRejectsOverlap(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	err := doc.Apply([]edit.TextEdit{edit.Remove(0, 6), edit.Remove(3, 5)})
	var cerr *edit.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, selectAll, doc.Text())
}

func TestTypingCoalescesIntoOneUnit(t *testing.T) {
	t.Parallel()

	doc := newDoc("")
	for i, c := range "SELECT 1" {
		require.NoError(t, doc.Insert(i, string(c)))
	}

	ok, err := doc.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, doc.Text())
	assert.False(t, doc.CanUndo())

	doc2 := newDoc("", document.WithCoalesceTyping(false))
	require.NoError(t, doc2.Insert(0, "a"))
	require.NoError(t, doc2.Insert(1, "b"))
	_, err = doc2.Undo()
	require.NoError(t, err)
	assert.Equal(t, "a", doc2.Text())
}

func TestInsignificantEditFoldsIntoPreviousUnit(t *testing.T) {
	t.Parallel()

	doc := newDoc("select 1", document.WithCoalesceTyping(false))
	require.NoError(t, doc.Insert(8, ";"))
	require.NoError(t, doc.Edit(edit.Replace(0, 6, "SELECT"), false))

	_, err := doc.Undo()
	require.NoError(t, err)
	assert.Equal(t, "select 1", doc.Text())
	assert.False(t, doc.CanUndo())
}

func TestInsignificantEditAfterUndoDropsRedo(t *testing.T) {
	t.Parallel()

	doc := newDoc("SELECT")
	require.NoError(t, doc.Insert(6, " 1"))
	_, err := doc.Undo()
	require.NoError(t, err)
	require.True(t, doc.CanRedo())

	require.NoError(t, doc.Edit(edit.Insert(0, "-- x\n"), false))
	assert.False(t, doc.CanRedo())

	ok, err := doc.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "-- x\nSELECT", doc.Text())
	assert.Equal(t, freshTokens(t, doc.Text()), doc.Index().Tokens())
}

func TestUndoLimit(t *testing.T) {
	t.Parallel()

	doc := newDoc("", document.WithUndoLimit(2), document.WithCoalesceTyping(false))
	for i := range 5 {
		require.NoError(t, doc.Insert(i, "x"))
	}

	undone := 0
	for doc.CanUndo() {
		_, err := doc.Undo()
		require.NoError(t, err)
		undone++
	}
	assert.Equal(t, 2, undone)
	assert.Equal(t, "xxx", doc.Text())
}

func TestSetTextClearsHistory(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	require.NoError(t, doc.Insert(0, "-- c\n"))
	doc.SetText("DELETE FROM t")

	assert.False(t, doc.CanUndo())
	assert.False(t, doc.CanRedo())
	assert.Equal(t, freshTokens(t, "DELETE FROM t"), doc.Index().Tokens())
	assert.Equal(t, len("DELETE FROM t"), doc.Len())
}

func TestClearUndo(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	require.NoError(t, doc.Insert(0, " "))
	_, err := doc.Undo()
	require.NoError(t, err)
	require.True(t, doc.CanRedo())

	doc.ClearUndo()
	assert.False(t, doc.CanUndo())
	assert.False(t, doc.CanRedo())
}

func TestNoLexerHasNoIndex(t *testing.T) {
	t.Parallel()

	doc := document.New(document.WithText(selectAll), document.WithLogger(logging.Discard()))
	assert.Nil(t, doc.Index())
	assert.Equal(t, document.ParseNone, doc.LastParse().Status)
	_, ok := doc.TokenAt(3)
	assert.False(t, ok)
	assert.Empty(t, slices.Collect(doc.TokensInRange(0, 100)))

	require.NoError(t, doc.Insert(0, "x"), "editing works without a lexer")

	doc.SetLexer(lexer.NewSQL(lexer.SQLOptions{}))
	assert.NotNil(t, doc.Index())
	assert.True(t, doc.LastParse().Complete())

	doc.SetLexer(nil)
	assert.Nil(t, doc.Index())
}

// failingLexer yields whole-word tokens until it reaches failAt.
type failingLexer struct {
	src    []byte
	pos    int
	failAt int
	err    error
	bad    bool
	panics bool
}

func (l *failingLexer) Reset(src []byte) {
	l.src = src
	l.pos = 0
}

func (l *failingLexer) Next() (token.Token, error) {
	for l.pos < len(l.src) && l.src[l.pos] == ' ' {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token.Token{}, io.EOF
	}
	if l.pos >= l.failAt {
		switch {
		case l.panics:
			panic("boom")
		case l.bad:
			return token.New(token.KindDefault, 0, 1), nil
		default:
			return token.Token{}, l.err
		}
	}
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != ' ' {
		l.pos++
	}
	return token.New(token.KindIdentifier, start, l.pos-start), nil
}

func TestLexerFailureYieldsPartialIndex(t *testing.T) {
	t.Parallel()

	errRead := errors.New("read failed")
	tests := []struct {
		name    string
		lexer   *failingLexer
		wantErr error
	}{
		{"error", &failingLexer{failAt: 7, err: errRead}, errRead},
		{"overlapping token", &failingLexer{failAt: 7, bad: true}, document.ErrLexerOutput},
		{"panic", &failingLexer{failAt: 7, panics: true}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var logs strings.Builder
			doc := document.New(
				document.WithText(selectAll),
				document.WithLexer(tc.lexer),
				document.WithLogger(logging.NewWriter(&logs, "error")),
			)

			parse := doc.LastParse()
			require.True(t, parse.Partial())
			require.Error(t, parse.Err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, parse.Err, tc.wantErr)
			}
			assert.Equal(t, []token.Token{token.New(token.KindIdentifier, 0, 6)}, doc.Index().Tokens())
			assert.Contains(t, logs.String(), "lexer failed")

			// Edits still succeed.
			require.NoError(t, doc.Insert(0, " "))
			assert.True(t, doc.LastParse().Partial())
		})
	}
}

func TestRelexIsIdempotent(t *testing.T) {
	t.Parallel()

	doc := newDoc("SELECT a, 'x' FROM t -- c")
	first := doc.Index().Tokens()
	doc.SetText(doc.Text())
	assert.Equal(t, first, doc.Index().Tokens())
}

func TestRandomEditsMatchFreshLex(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	pieces := []string{"SELECT", " ", "'a b'", "--x\n", "/*", "*/", "1.5", ",", "t", "\"q\"", "\n"}

	doc := newDoc("", document.WithCoalesceTyping(false), document.WithUndoLimit(0))
	var history []string

	for range 200 {
		history = append(history, doc.Text())
		n := doc.Len()
		if n > 0 && rng.IntN(3) == 0 {
			off := rng.IntN(n)
			require.NoError(t, doc.Remove(off, rng.IntN(n-off)+1))
		} else {
			require.NoError(t, doc.Insert(rng.IntN(n+1), pieces[rng.IntN(len(pieces))]))
		}
		require.Equal(t, freshTokens(t, doc.Text()), doc.Index().Tokens())
		require.NoError(t, token.Validate(doc.Index().Tokens()))
	}

	for i := len(history) - 1; i >= 0; i-- {
		ok, err := doc.Undo()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, history[i], doc.Text())
		require.Equal(t, freshTokens(t, history[i]), doc.Index().Tokens())
	}
	assert.False(t, doc.CanUndo())
}

func TestConcurrentReadersSeeWholeIndexes(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			ix := doc.Index()
			assert.NoError(t, token.Validate(ix.Tokens()))
			for range doc.TokensInRange(0, doc.Len()) {
			}
		}
	}()

	for i := range 100 {
		require.NoError(t, doc.Insert(i%doc.Len(), "a "))
	}
	close(done)
	wg.Wait()
}

func TestViewPairsTextWithIndex(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			view := doc.View()
			want, err := lexer.All(lexer.NewSQL(lexer.SQLOptions{}), []byte(view.Text))
			if !assert.NoError(t, err) || !assert.Equal(t, want, view.Index.Tokens()) {
				return
			}
		}
	}()

	for i := range 50 {
		require.NoError(t, doc.Insert(i%doc.Len(), "x, "))
	}
	close(done)
	wg.Wait()

	view := doc.View()
	assert.Equal(t, doc.Text(), view.Text)
	assert.Equal(t, freshTokens(t, view.Text), view.Index.Tokens())
	tok, ok := view.TokenAt(0)
	require.True(t, ok)
	assert.Equal(t, view.Index.At(0), tok)
}

func TestNoopEditKeepsStateAndHistory(t *testing.T) {
	t.Parallel()

	doc := newDoc(selectAll)
	before := doc.View()

	require.NoError(t, doc.Insert(3, ""))
	require.NoError(t, doc.Remove(3, 0))

	assert.Same(t, before, doc.View())
	assert.False(t, doc.CanUndo())
}
