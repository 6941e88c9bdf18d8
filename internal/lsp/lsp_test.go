package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

const testURI = "file:///tmp/query.sql"

func pos(line, char protocol.UInteger) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

func newTestServer(t *testing.T, text string) *Server {
	t.Helper()

	s := New(Options{Version: "test", Logger: logging.Discard(), Verbosity: -1})
	err := s.didOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "sql", Version: 1, Text: text},
	})
	require.NoError(t, err)
	return s
}

func TestLineIndexOffsets(t *testing.T) {
	t.Parallel()

	// "é" is one UTF-16 unit and two bytes; "😀" is two units and four bytes.
	text := "ab\r\né😀x\n"
	lines := newLineIndex(text)

	tests := []struct {
		pos  protocol.Position
		want int
	}{
		{pos(0, 0), 0},
		{pos(0, 2), 2},
		{pos(0, 9), 2}, // clamps before CR
		{pos(1, 0), 4},
		{pos(1, 1), 6},
		{pos(1, 2), 6}, // inside the surrogate pair
		{pos(1, 3), 10},
		{pos(1, 4), 11},
		{pos(2, 0), 12},
		{pos(7, 0), 12},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, lines.Offset(tc.pos), "%+v", tc.pos)
	}

	for _, offset := range []int{0, 2, 4, 6, 10, 11, 12} {
		p, err := lines.Position(offset)
		require.NoError(t, err)
		assert.Equal(t, offset, lines.Offset(p), "offset %d", offset)
	}
}

func TestEncodeSemanticTokens(t *testing.T) {
	t.Parallel()

	text := "SELECT a\n/* x\ny */ 1;"
	tokens := []token.Token{
		token.New(token.KindKeyword, 0, 6),
		token.New(token.KindIdentifier, 7, 1),
		token.New(token.KindComment, 9, 9),
		token.New(token.KindNumber, 19, 1),
		token.New(token.KindDelimiter, 20, 1),
	}

	data, err := encodeSemanticTokens(tokens, newLineIndex(text))
	require.NoError(t, err)
	assert.Equal(t, []protocol.UInteger{
		0, 0, 6, 0, 0, // SELECT
		0, 7, 1, 3, 0, // a
		1, 0, 4, 6, 0, // "/* x"
		1, 0, 4, 6, 0, // "y */"
		0, 5, 1, 4, 0, // 1
	}, data)
}

func TestServerIncrementalChange(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "SELECT a\nFROM t")

	rng := protocol.Range{Start: pos(0, 7), End: pos(0, 8)}
	err := s.didChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{Range: &rng, Text: "COUNT(*)"},
		},
	})
	require.NoError(t, err)

	doc, ok := s.Document(testURI)
	require.True(t, ok)
	assert.Equal(t, "SELECT COUNT(*)\nFROM t", doc.Text())

	tok, ok := doc.TokenAt(8)
	require.True(t, ok)
	assert.Equal(t, token.KindFunction, tok.Kind)

	// The client edit is undoable like any other edit.
	undone, err := doc.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	assert.Equal(t, "SELECT a\nFROM t", doc.Text())
}

func TestServerWholeChange(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "SELECT 1")
	err := s.didChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "DROP t"}},
	})
	require.NoError(t, err)

	doc, _ := s.Document(testURI)
	assert.Equal(t, "DROP t", doc.Text())
}

func TestServerChangeUnknownDocument(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	err := s.didChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///other.sql"},
		},
	})
	require.Error(t, err)
}

func TestServerHover(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "SELECT a\nFROM t\n")

	hover, err := s.hover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     pos(1, 2),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	require.NotNil(t, hover.Range)
	assert.Equal(t, protocol.Range{Start: pos(1, 0), End: pos(1, 4)}, *hover.Range)

	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "**keyword** `[9:13]`")

	hover, err = s.hover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     pos(3, 0),
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestServerSemanticTokens(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "SELECT a\nFROM t")

	full, err := s.semanticTokensFull(nil, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Len(t, full.Data, 4*5)

	result, err := s.semanticTokensRange(nil, &protocol.SemanticTokensRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range:        protocol.Range{Start: pos(1, 0), End: pos(1, 6)},
	})
	require.NoError(t, err)
	ranged, ok := result.(*protocol.SemanticTokens)
	require.True(t, ok)
	assert.Equal(t, []protocol.UInteger{
		1, 0, 4, 0, 0,
		0, 5, 1, 3, 0,
	}, ranged.Data)
}

func TestDiagnose(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "SELECT 'open")
	doc, _ := s.Document(testURI)

	diagnostics, err := diagnose(doc.View())
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, protocol.Range{Start: pos(0, 7), End: pos(0, 12)}, diagnostics[0].Range)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *diagnostics[0].Severity)
}

func TestServerClose(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "SELECT 1")
	require.NoError(t, s.didClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	_, ok := s.Document(testURI)
	assert.False(t, ok)
}

func TestLexerForFallsBackToPath(t *testing.T) {
	t.Parallel()

	s := New(Options{Logger: logging.Discard()})
	lx, lang := s.lexerFor("file:///x/report.sql", "plaintext", "SELECT 1")
	assert.NotNil(t, lx)
	assert.Equal(t, "sql", lang)

	lx, _ = s.lexerFor("file:///x/readme.md", "markdown", "# hi")
	assert.Nil(t, lx)
}
