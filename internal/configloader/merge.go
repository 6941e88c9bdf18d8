package configloader

import "github.com/yaklabco/syntaxdoc/pkg/config"

// merge combines two configurations, with override taking precedence:
//   - Scalars: override wins when non-zero
//   - Pointers: override wins when non-nil
//   - Slices: override replaces base entirely when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Dialect != "" {
		result.Dialect = override.Dialect
	}
	if override.TabSize != 0 {
		result.TabSize = override.TabSize
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.Undo.Limit != nil {
		result.Undo.Limit = override.Undo.Limit
	}
	if override.Undo.CoalesceTyping != nil {
		result.Undo.CoalesceTyping = override.Undo.CoalesceTyping
	}
	if override.Backups.Enabled != nil {
		result.Backups.Enabled = override.Backups.Enabled
	}

	if override.Keywords != nil {
		result.Keywords = override.Keywords
	}
	if override.Types != nil {
		result.Types = override.Types
	}
	if override.Functions != nil {
		result.Functions = override.Functions
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
