package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/syntaxdoc/pkg/config"
)

// envVarPrefix is the prefix for all syntaxdoc environment variables.
const envVarPrefix = "SYNTAXDOC_"

// envVar describes one supported environment override.
type envVar struct {
	suffix      string
	description string
	apply       func(cfg *config.Config, value string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{"DIALECT", "SQL dialect: ansi, postgres, mysql or oracle", func(cfg *config.Config, v string) error {
		cfg.Dialect = v
		return nil
	}},
	{"KEYWORDS", "Comma-separated extra keywords", func(cfg *config.Config, v string) error {
		cfg.Keywords = parseSliceValue(v)
		return nil
	}},
	{"TYPES", "Comma-separated extra type names", func(cfg *config.Config, v string) error {
		cfg.Types = parseSliceValue(v)
		return nil
	}},
	{"FUNCTIONS", "Comma-separated extra function names", func(cfg *config.Config, v string) error {
		cfg.Functions = parseSliceValue(v)
		return nil
	}},
	{"UNDO_LIMIT", "Undo steps kept per document (0 = unbounded)", func(cfg *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		cfg.Undo.Limit = &n
		return nil
	}},
	{"UNDO_COALESCE_TYPING", "Merge typed runs into one undo step: true or false", func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", v)
		}
		cfg.Undo.CoalesceTyping = &b
		return nil
	}},
	{"TAB_SIZE", "Display width of a tab", func(cfg *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		cfg.TabSize = n
		return nil
	}},
	{"EXTENSIONS", "Comma-separated file extensions to scan", func(cfg *config.Config, v string) error {
		cfg.Extensions = parseSliceValue(v)
		return nil
	}},
	{"IGNORE", "Comma-separated list of ignore patterns", func(cfg *config.Config, v string) error {
		cfg.Ignore = parseSliceValue(v)
		return nil
	}},
	{"BACKUPS_ENABLED", "Back up files before replay --write: true or false", func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", v)
		}
		cfg.Backups.Enabled = &b
		return nil
	}},
	{"FORMAT", "Output format: text, table, json, msgpack or summary", func(cfg *config.Config, v string) error {
		cfg.Format = config.OutputFormat(v)
		return nil
	}},
	{"JOBS", "Number of parallel workers (0 = auto)", func(cfg *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		cfg.Jobs = n
		return nil
	}},
}

// LoadFromEnv applies SYNTAXDOC_* environment overrides to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for _, ev := range envVars {
		name := envVarPrefix + ev.suffix
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// parseSliceValue splits a comma-separated value, trimming and dropping
// empty elements.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported environment variable with its
// description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for _, ev := range envVars {
		vars[envVarPrefix+ev.suffix] = ev.description
	}
	return vars
}
