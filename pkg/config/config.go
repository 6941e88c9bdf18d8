// Package config defines core configuration types for syntaxdoc.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

import "slices"

// OutputFormat specifies the output format for token reports.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatMsgpack OutputFormat = "msgpack"
	FormatSummary OutputFormat = "summary"
)

// Dialect names accepted in configuration files.
const (
	DialectANSI     = "ansi"
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectOracle   = "oracle"
)

// Defaults.
const (
	DefaultUndoLimit = 100
	DefaultTabSize   = 4
)

// UndoConfig controls each document's undo history. Nil fields are unset
// and fall back to defaults.
type UndoConfig struct {
	// Limit bounds the undo and redo stacks. Zero means unbounded.
	Limit *int `yaml:"limit,omitempty" toml:"limit,omitempty"`

	// CoalesceTyping merges runs of adjacent single-line insertions into
	// one undo step.
	CoalesceTyping *bool `yaml:"coalesce_typing,omitempty" toml:"coalesce_typing,omitempty"`
}

// LimitOrDefault returns the configured limit or DefaultUndoLimit.
func (u UndoConfig) LimitOrDefault() int {
	if u.Limit == nil {
		return DefaultUndoLimit
	}
	return *u.Limit
}

// CoalesceOrDefault returns the configured coalescing flag, true when unset.
func (u UndoConfig) CoalesceOrDefault() bool {
	return u.CoalesceTyping == nil || *u.CoalesceTyping
}

// BackupsConfig controls backups written by `replay --write`.
type BackupsConfig struct {
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
}

// EnabledOrDefault reports whether backups are on, true when unset.
func (b BackupsConfig) EnabledOrDefault() bool {
	return b.Enabled == nil || *b.Enabled
}

// Config is the root configuration structure for syntaxdoc.
type Config struct {
	// Dialect selects the built-in keyword tables. Empty means detect per
	// file, falling back to ANSI.
	Dialect string `yaml:"dialect,omitempty" toml:"dialect,omitempty"`

	// Keywords, Types and Functions extend the dialect word tables.
	Keywords  []string `yaml:"keywords,omitempty" toml:"keywords,omitempty"`
	Types     []string `yaml:"types,omitempty" toml:"types,omitempty"`
	Functions []string `yaml:"functions,omitempty" toml:"functions,omitempty"`

	// Undo configures undo history.
	Undo UndoConfig `yaml:"undo,omitempty" toml:"undo,omitempty"`

	// TabSize is the display width of a tab when computing columns.
	TabSize int `yaml:"tab_size,omitempty" toml:"tab_size,omitempty"`

	// Extensions lists the file extensions picked up during discovery.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Backups configures backups when rewriting files.
	Backups BackupsConfig `yaml:"backups,omitempty" toml:"backups,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	limit := DefaultUndoLimit
	coalesce := true
	backups := true
	return &Config{
		Undo: UndoConfig{
			Limit:          &limit,
			CoalesceTyping: &coalesce,
		},
		TabSize:    DefaultTabSize,
		Extensions: []string{".sql", ".md", ".markdown"},
		Backups:    BackupsConfig{Enabled: &backups},
		Format:     FormatText,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Keywords = slices.Clone(c.Keywords)
	clone.Types = slices.Clone(c.Types)
	clone.Functions = slices.Clone(c.Functions)
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Ignore = slices.Clone(c.Ignore)
	clone.Undo.Limit = clonePtr(c.Undo.Limit)
	clone.Undo.CoalesceTyping = clonePtr(c.Undo.CoalesceTyping)
	clone.Backups.Enabled = clonePtr(c.Backups.Enabled)
	return &clone
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
