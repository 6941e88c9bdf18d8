package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/document"
	"github.com/yaklabco/syntaxdoc/pkg/langdetect"
	"github.com/yaklabco/syntaxdoc/pkg/runner"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunTokenizesSQLAndMarkdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "query.sql", "SELECT * FROM t")
	md := "# Notes\n\n```sql\nSELECT 1\n```\n"
	writeFile(t, dir, "notes.md", md)
	writeFile(t, dir, "readme.txt", "SELECT ignored")

	result, err := runner.New(nil).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Jobs:       2,
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	notes, query := result.Files[0], result.Files[1]

	assert.Equal(t, filepath.Join(dir, "notes.md"), notes.Path)
	assert.Equal(t, langdetect.LangMarkdown, notes.Language)
	assert.Equal(t, 1, notes.Blocks)
	require.Len(t, notes.Tokens, 2)
	assert.Equal(t, "SELECT", string(notes.Tokens[0].Text([]byte(md))))
	assert.Equal(t, "1", string(notes.Tokens[1].Text([]byte(md))))
	assert.True(t, notes.Parse.Complete())

	assert.Equal(t, langdetect.LangSQL, query.Language)
	assert.Equal(t, []token.Token{
		token.New(token.KindKeyword, 0, 6),
		token.New(token.KindOperator, 7, 1),
		token.New(token.KindKeyword, 9, 4),
		token.New(token.KindIdentifier, 14, 1),
	}, query.Tokens)

	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesProcessed)
	assert.Equal(t, 6, result.Stats.TokensTotal)
	assert.Equal(t, 3, result.Stats.TokensByKind[token.KindKeyword])
	assert.Equal(t, 1, result.Stats.FilesByLanguage[langdetect.LangSQL])
	assert.False(t, result.HasErrors())
}

func TestRunMarkdownWithoutSQL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "doc.md", "# Title\n\n```go\nfunc main() {}\n```\n")

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	outcome := result.Files[0]
	assert.Zero(t, outcome.Blocks)
	assert.Empty(t, outcome.Tokens)
	assert.Equal(t, document.ParseNone, outcome.Parse.Status)
}

func TestRunConfiguredDialectOverridesDetection(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// NVL( hints at Oracle, which would make NVL a function.
	writeFile(t, dir, "q.sql", "SELECT NVL(a, 0) FROM t")

	cfg := config.NewConfig()
	cfg.Dialect = config.DialectANSI

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, token.KindIdentifier, result.Files[0].Tokens[1].Kind)

	result, err = runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, token.KindFunction, result.Files[0].Tokens[1].Kind)
}

func TestRunExtraWordsFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "q.sql", "QUALIFY x")

	cfg := config.NewConfig()
	cfg.Keywords = []string{"qualify"}

	result, err := runner.New(nil).Run(context.Background(), runner.OptionsFromConfig(cfg, []string{dir}))
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, token.KindKeyword, result.Files[0].Tokens[0].Kind)
}

func TestRunInvalidDialect(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Dialect = "cobol"

	_, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: t.TempDir(), Config: cfg})
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.sql", "SELECT 1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(nil).Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunPartialLex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bad.sql", "SELECT 'unterminated")

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	// Unterminated literals become warning tokens, not lexer failures.
	assert.True(t, result.Files[0].Parse.Complete())
	assert.Equal(t, token.KindWarning, result.Files[0].Tokens[1].Kind)
}

func TestTokenizeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "one.sql", "DROP TABLE t;")

	outcome, err := runner.New(nil).TokenizeFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Len(t, outcome.Tokens, 4)

	_, err = runner.New(nil).TokenizeFile(context.Background(), filepath.Join(dir, "missing.sql"), nil)
	require.Error(t, err)
}

func TestLexerOptions(t *testing.T) {
	t.Parallel()

	opts, err := runner.LexerOptions(nil)
	require.NoError(t, err)
	assert.Empty(t, opts.Dialect)

	cfg := config.NewConfig()
	cfg.Dialect = "postgresql"
	cfg.Functions = []string{"f"}
	opts, err = runner.LexerOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"f"}, opts.Functions)
	assert.NotEmpty(t, opts.Dialect)
}

func TestLexerFor(t *testing.T) {
	t.Parallel()

	r := runner.New(nil)

	lx, lang, err := r.LexerFor("q.sql", []byte("SELECT NVL(a, 0) FROM DUAL"), nil)
	require.NoError(t, err)
	require.NotNil(t, lx)
	assert.Equal(t, langdetect.LangPLSQL, lang)

	lx, lang, err = r.LexerFor("notes.md", []byte("# hi"), nil)
	require.NoError(t, err)
	assert.Nil(t, lx)
	assert.Equal(t, langdetect.LangMarkdown, lang)

	cfg := config.NewConfig()
	cfg.Dialect = "cobol"
	_, _, err = r.LexerFor("q.sql", []byte("SELECT 1"), cfg)
	require.Error(t, err)
}
