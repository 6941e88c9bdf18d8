// Package runner discovers SQL and Markdown files and tokenizes them
// concurrently, one document per file or embedded SQL block.
package runner

import (
	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/lexer"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process working
	// directory.
	WorkingDir string

	// Extensions selects files inside directories (lowercase, leading dot).
	// Files named explicitly are always processed. Defaults to
	// DefaultExtensions().
	Extensions []string

	// ExcludeGlobs skip matching files and directories. "**" matches any
	// number of path segments.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs bounds concurrent workers. 0 or negative means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the extensions scanned when none are configured.
func DefaultExtensions() []string {
	return []string{".sql", ".md", ".markdown"}
}

// OptionsFromConfig builds run options for paths from a resolved config.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Options{
		Paths:        paths,
		Extensions:   cfg.Extensions,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Config:       cfg,
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// LexerOptions converts configured word lists and dialect into lexer
// options. An invalid dialect is reported as an error.
func LexerOptions(cfg *config.Config) (lexer.SQLOptions, error) {
	if cfg == nil {
		return lexer.SQLOptions{}, nil
	}
	dialect, err := lexer.ParseDialect(cfg.Dialect)
	if err != nil {
		return lexer.SQLOptions{}, err
	}
	return lexer.SQLOptions{
		Dialect:   dialect,
		Keywords:  cfg.Keywords,
		Types:     cfg.Types,
		Functions: cfg.Functions,
	}, nil
}
