package lexer

import (
	"slices"
	"sync"

	"github.com/yaklabco/syntaxdoc/pkg/langdetect"
)

// Factory builds a fresh lexer. Lexers are stateful, so every document needs
// its own instance.
type Factory func(opts SQLOptions) Lexer

// Registry maps language identifiers (see package langdetect) to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// DefaultRegistry knows the SQL family of languages.
//
//nolint:gochecknoglobals // Package-level registry mirrors the default lexer set.
var DefaultRegistry = newDefaultRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(langdetect.LangSQL, func(opts SQLOptions) Lexer {
		return NewSQL(opts)
	})
	r.Register(langdetect.LangPLpgSQL, withDialect(DialectPostgres))
	r.Register(langdetect.LangMySQL, withDialect(DialectMySQL))
	r.Register(langdetect.LangPLSQL, withDialect(DialectOracle))
	return r
}

// withDialect forces a dialect detected from the source, keeping any extra
// words from configuration.
func withDialect(dialect Dialect) Factory {
	return func(opts SQLOptions) Lexer {
		opts.Dialect = dialect
		return NewSQL(opts)
	}
}

// Register adds or replaces the factory for lang.
func (r *Registry) Register(lang string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[lang] = factory
}

// Lookup returns the factory for lang.
func (r *Registry) Lookup(lang string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[lang]
	return factory, ok
}

// Languages returns the registered language identifiers, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]string, 0, len(r.factories))
	for lang := range r.factories {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// ForLanguage builds a lexer for lang, or returns nil when none is registered.
func (r *Registry) ForLanguage(lang string, opts SQLOptions) Lexer {
	factory, ok := r.Lookup(lang)
	if !ok {
		return nil
	}
	return factory(opts)
}

// ForFile detects the language of a file and builds a matching lexer.
// The lexer is nil when the language has no registered factory, which
// leaves a document without a token index.
func (r *Registry) ForFile(path string, content []byte, opts SQLOptions) (Lexer, string) {
	lang := langdetect.DetectFile(path, content)
	return r.ForLanguage(lang, opts), lang
}
