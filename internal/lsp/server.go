// Package lsp serves SQL semantic tokens over the Language Server Protocol.
// Every open text document is backed by a document.Document, so client
// edits go through the same validation, undo, and re-lex path as any other
// edit.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	// Registers the commonlog backend used by glsp.
	_ "github.com/tliron/commonlog/simple"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/pkg/document"
	"github.com/yaklabco/syntaxdoc/pkg/lexer"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

const (
	lsName           = "syntaxdoc"
	diagnosticSource = "syntaxdoc"
)

// Options configures a Server.
type Options struct {
	Version      string
	Registry     *lexer.Registry
	LexerOptions lexer.SQLOptions
	UndoLimit    int
	Logger       *log.Logger

	// Verbosity is passed to commonlog for glsp's own protocol logging.
	// Negative disables it.
	Verbosity int
}

// Server is a language server holding one document per open URI.
type Server struct {
	opts    Options
	handler protocol.Handler
	server  *server.Server
	logger  *log.Logger

	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*document.Document
}

// New creates a server.
func New(opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = lexer.DefaultRegistry
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger,
		docs:   make(map[protocol.DocumentUri]*document.Document),
	}
	s.handler = protocol.Handler{
		Initialize:                      s.initialize,
		Initialized:                     s.initialized,
		Shutdown:                        s.shutdown,
		SetTrace:                        s.setTrace,
		TextDocumentDidOpen:             s.didOpen,
		TextDocumentDidChange:           s.didChange,
		TextDocumentDidClose:            s.didClose,
		TextDocumentHover:               s.hover,
		TextDocumentSemanticTokensFull:  s.semanticTokensFull,
		TextDocumentSemanticTokensRange: s.semanticTokensRange,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

// RunStdio serves the protocol on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	if s.opts.Verbosity >= 0 {
		commonlog.Configure(s.opts.Verbosity, nil)
	}
	s.logger.Info("language server starting", logging.FieldVersion, s.opts.Version)
	return s.server.RunStdio()
}

// Document returns the document open at uri.
func (s *Server) Document(uri protocol.DocumentUri) (*document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

func (s *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: legend(),
		Full:   true,
		Range:  true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.opts.Version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.mu.Lock()
	clear(s.docs)
	s.mu.Unlock()
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	logger := s.logger.With(logging.FieldURI, item.URI)

	lx, lang := s.lexerFor(item.URI, item.LanguageID, item.Text)
	doc := document.New(
		document.WithText(item.Text),
		document.WithLexer(lx),
		document.WithLogger(logger),
		document.WithUndoLimit(s.opts.UndoLimit),
	)

	s.mu.Lock()
	s.docs[item.URI] = doc
	s.mu.Unlock()

	logger.Debug("opened", logging.FieldLanguage, lang, logging.FieldBytes, doc.Len())
	return s.publishDiagnostics(ctx, item.URI, doc)
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	doc, ok := s.Document(uri)
	if !ok {
		return fmt.Errorf("document not open: %s", uri)
	}

	for _, change := range params.ContentChanges {
		if err := applyChange(doc, change); err != nil {
			return fmt.Errorf("apply change to %s: %w", uri, err)
		}
	}
	// Each notification is its own undo step.
	doc.SealUndo()

	return s.publishDiagnostics(ctx, uri, doc)
}

// applyChange routes both incremental and whole-document changes through
// Replace.
func applyChange(doc *document.Document, change any) error {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return doc.Replace(0, doc.Len(), c.Text)
		}
		lines := newLineIndex(doc.Text())
		start := lines.Offset(c.Range.Start)
		end := lines.Offset(c.Range.End)
		if end < start {
			start, end = end, start
		}
		return doc.Replace(start, end-start, c.Text)
	case protocol.TextDocumentContentChangeEventWhole:
		return doc.Replace(0, doc.Len(), c.Text)
	default:
		return fmt.Errorf("unsupported change event %T", change)
	}
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	notify(ctx, string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) semanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc, ok := s.Document(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil // Unknown documents have no tokens.
	}

	view := doc.View()
	lines := newLineIndex(view.Text)
	data, err := encodeSemanticTokens(view.Index.Tokens(), lines)
	if err != nil {
		return nil, err
	}
	return &protocol.SemanticTokens{Data: data}, nil
}

func (s *Server) semanticTokensRange(_ *glsp.Context, params *protocol.SemanticTokensRangeParams) (any, error) {
	doc, ok := s.Document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	view := doc.View()
	lines := newLineIndex(view.Text)
	start := lines.Offset(params.Range.Start)
	end := lines.Offset(params.Range.End)

	var tokens []token.Token
	for tok := range view.TokensInRange(start, end) {
		tokens = append(tokens, tok)
	}
	data, err := encodeSemanticTokens(tokens, lines)
	if err != nil {
		return nil, err
	}
	return &protocol.SemanticTokens{Data: data}, nil
}

func (s *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, ok := s.Document(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil // No hover for unknown documents.
	}

	view := doc.View()
	lines := newLineIndex(view.Text)
	tok, found := view.TokenAt(lines.Offset(params.Position))
	if !found {
		return nil, nil //nolint:nilnil // No token under the cursor.
	}

	rng, err := lines.Range(tok.Start, tok.End())
	if err != nil {
		return nil, err
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: fmt.Sprintf("**%s** `[%d:%d]`\n\n```sql\n%s\n```", tok.Kind, tok.Start, tok.End(), tok.Text([]byte(view.Text))),
		},
		Range: &rng,
	}, nil
}

// publishDiagnostics reports warning tokens and lexer failures.
func (s *Server) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, doc *document.Document) error {
	diagnostics, err := diagnose(doc.View())
	if err != nil {
		return err
	}
	notify(ctx, string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

func diagnose(view *document.View) ([]protocol.Diagnostic, error) {
	lines := newLineIndex(view.Text)
	diagnostics := []protocol.Diagnostic{}

	for tok := range view.Index.All() {
		if tok.Kind != token.KindWarning {
			continue
		}
		rng, err := lines.Range(tok.Start, tok.End())
		if err != nil {
			return nil, err
		}
		diagnostics = append(diagnostics, newDiagnostic(rng, protocol.DiagnosticSeverityWarning,
			fmt.Sprintf("unrecognized input %q", tok.Text([]byte(view.Text)))))
	}

	if parse := view.Parse; parse.Partial() {
		diagnostics = append(diagnostics, newDiagnostic(protocol.Range{}, protocol.DiagnosticSeverityError,
			fmt.Sprintf("lexer failed: %v", parse.Err)))
	}
	return diagnostics, nil
}

func newDiagnostic(rng protocol.Range, severity protocol.DiagnosticSeverity, message string) protocol.Diagnostic {
	source := diagnosticSource
	return protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// lexerFor picks a lexer from the client's language id, falling back to
// detection from the URI path and content.
func (s *Server) lexerFor(uri protocol.DocumentUri, languageID, text string) (lexer.Lexer, string) {
	lang := strings.ToLower(languageID)
	if lx := s.opts.Registry.ForLanguage(lang, s.opts.LexerOptions); lx != nil {
		return lx, lang
	}
	return s.opts.Registry.ForFile(uriPath(string(uri)), []byte(text), s.opts.LexerOptions)
}

func notify(ctx *glsp.Context, method string, params any) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(method, params)
}

func uriPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return uri
	}
	return filepath.Clean(filepath.FromSlash(parsed.Path))
}

func boolPtr(b bool) *bool {
	return &b
}
