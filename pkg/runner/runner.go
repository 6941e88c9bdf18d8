package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/document"
	"github.com/yaklabco/syntaxdoc/pkg/langdetect"
	"github.com/yaklabco/syntaxdoc/pkg/lexer"
	"github.com/yaklabco/syntaxdoc/pkg/mdsql"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// Runner tokenizes files concurrently.
type Runner struct {
	registry *lexer.Registry
}

// New creates a runner. A nil registry means lexer.DefaultRegistry.
func New(registry *lexer.Registry) *Runner {
	if registry == nil {
		registry = lexer.DefaultRegistry
	}
	return &Runner{registry: registry}
}

// Run discovers files and tokenizes each one in its own document.
// Per-file read failures are recorded in the outcome; Run only fails on
// discovery errors, invalid configuration, or cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)
	began := time.Now()

	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	lexOpts, err := LexerOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("lexer options: %w", err)
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(files))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, min(jobs, len(files))))

	for i, path := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.processFile(gctx, path, cfg, lexOpts)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	result := &Result{Files: outcomes, Stats: newStats(len(files))}
	for _, outcome := range outcomes {
		result.Stats.accumulate(outcome)
	}

	logger.Info("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesPartial, result.Stats.FilesPartial,
		logging.FieldTokensTotal, result.Stats.TokensTotal,
		logging.FieldDuration, time.Since(began))

	return result, nil
}

// TokenizeFile processes a single file with the same rules as Run.
func (r *Runner) TokenizeFile(ctx context.Context, path string, cfg *config.Config) (FileOutcome, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	lexOpts, err := LexerOptions(cfg)
	if err != nil {
		return FileOutcome{}, fmt.Errorf("lexer options: %w", err)
	}
	outcome := r.processFile(ctx, path, cfg, lexOpts)
	return outcome, outcome.Error
}

func (r *Runner) processFile(ctx context.Context, path string, cfg *config.Config, lexOpts lexer.SQLOptions) FileOutcome {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("read failed", logging.FieldError, err)
		return FileOutcome{Path: path, Error: fmt.Errorf("read %s: %w", path, err)}
	}

	lang := langdetect.DetectFile(path, content)
	outcome := FileOutcome{Path: path, Language: lang, Content: content}

	if lang == langdetect.LangMarkdown {
		r.processMarkdown(&outcome, cfg, lexOpts, logger)
		return outcome
	}

	lx := r.lexerFor(lang, cfg, lexOpts)
	if lx == nil {
		outcome.Parse = document.ParseResult{Status: document.ParseNone, Bytes: len(content)}
		return outcome
	}

	doc := document.New(
		document.WithText(string(content)),
		document.WithLexer(lx),
		document.WithLogger(logger),
	)
	outcome.Tokens = doc.Index().Tokens()
	outcome.Parse = doc.LastParse()
	return outcome
}

// processMarkdown tokenizes every SQL fenced block and maps the tokens back
// to file offsets.
func (r *Runner) processMarkdown(outcome *FileOutcome, cfg *config.Config, lexOpts lexer.SQLOptions, logger *log.Logger) {
	blocks := mdsql.Extract(outcome.Content)
	outcome.Blocks = len(blocks)
	outcome.Parse = document.ParseResult{Status: document.ParseNone, Bytes: len(outcome.Content)}

	var errs []error
	for _, block := range blocks {
		lx := r.lexerFor(block.Language, cfg, lexOpts)
		if lx == nil {
			continue
		}
		doc := document.New(
			document.WithText(string(block.Content)),
			document.WithLexer(lx),
			document.WithLogger(logger.With(logging.FieldOffset, block.Offset())),
		)

		for tok := range doc.Index().All() {
			outcome.Tokens = append(outcome.Tokens, mapToken(block, tok))
		}

		parse := doc.LastParse()
		outcome.Parse.Tokens += parse.Tokens
		outcome.Parse.Duration += parse.Duration
		switch {
		case parse.Partial():
			outcome.Parse.Status = document.ParsePartial
			errs = append(errs, fmt.Errorf("block at line %d: %w", block.Line, parse.Err))
		case outcome.Parse.Status == document.ParseNone:
			outcome.Parse.Status = document.ParseComplete
		}
	}
	outcome.Parse.Err = errors.Join(errs...)
}

// LexerFor picks the lexer for a whole file the way Run does and returns it
// with the detected language. The lexer is nil for Markdown, whose SQL lives
// in fenced blocks, and for files no lexer is registered for.
func (r *Runner) LexerFor(path string, content []byte, cfg *config.Config) (lexer.Lexer, string, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	lexOpts, err := LexerOptions(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("lexer options: %w", err)
	}

	lang := langdetect.DetectFile(path, content)
	if lang == langdetect.LangMarkdown {
		return nil, lang, nil
	}
	return r.lexerFor(lang, cfg, lexOpts), lang, nil
}

// lexerFor picks the lexer for a detected language. A configured dialect
// overrides whatever dialect detection guessed.
func (r *Runner) lexerFor(lang string, cfg *config.Config, lexOpts lexer.SQLOptions) lexer.Lexer {
	if cfg.Dialect != "" && langdetect.IsSQL(lang) {
		lang = langdetect.LangSQL
	}
	return r.registry.ForLanguage(lang, lexOpts)
}

func mapToken(block mdsql.Block, tok token.Token) token.Token {
	start := block.FileOffset(tok.Start)
	end := block.FileOffset(tok.End()-1) + 1
	return token.New(tok.Kind, start, end-start)
}
