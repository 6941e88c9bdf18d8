package lexer

import (
	"fmt"
	"strings"

	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// Dialect selects the word tables used by the SQL lexer.
type Dialect string

// Supported dialects.
const (
	DialectANSI     Dialect = "ansi"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectOracle   Dialect = "oracle"
)

// Dialects returns every supported dialect.
func Dialects() []Dialect {
	return []Dialect{DialectANSI, DialectPostgres, DialectMySQL, DialectOracle}
}

// ParseDialect resolves a dialect name. The empty string means ANSI.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", "ansi", "sql":
		return DialectANSI, nil
	case "postgres", "postgresql", "plpgsql":
		return DialectPostgres, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "oracle", "plsql":
		return DialectOracle, nil
	default:
		return "", fmt.Errorf("unknown dialect %q; valid dialects: ansi, postgres, mysql, oracle", name)
	}
}

type wordSet struct {
	keywords  []string
	types     []string
	functions []string
}

//nolint:gochecknoglobals // Read-only lookup table.
var ansiWords = wordSet{
	keywords: []string{
		"add", "all", "alter", "and", "any", "as", "asc", "between", "by", "case",
		"cast", "check", "column", "commit", "constraint", "create", "cross", "current",
		"default", "delete", "desc", "distinct", "drop", "else", "end", "escape",
		"except", "exists", "false", "fetch", "first", "for", "foreign", "from",
		"full", "grant", "group", "having", "in", "index", "inner", "insert",
		"intersect", "into", "is", "join", "key", "left", "like", "next", "not",
		"null", "offset", "on", "only", "or", "order", "outer", "over", "partition",
		"primary", "references", "revoke", "right", "rollback", "rows", "select",
		"set", "some", "table", "then", "true", "union", "unique", "update",
		"using", "values", "view", "when", "where", "with",
	},
	types: []string{
		"bigint", "binary", "bit", "blob", "boolean", "char", "character", "clob",
		"date", "decimal", "double", "float", "int", "integer", "interval",
		"numeric", "real", "smallint", "time", "timestamp", "varbinary", "varchar",
	},
	functions: []string{
		"abs", "avg", "ceiling", "char_length", "coalesce", "count", "current_date",
		"current_time", "current_timestamp", "extract", "floor", "lower", "max",
		"min", "mod", "nullif", "position", "round", "row_number", "substring",
		"sum", "trim", "upper",
	},
}

//nolint:gochecknoglobals // Read-only lookup table.
var dialectWords = map[Dialect]wordSet{
	DialectPostgres: {
		keywords: []string{
			"analyze", "conflict", "do", "ilike", "lateral", "limit", "materialized",
			"nothing", "returning", "similar", "vacuum", "verbose", "window",
		},
		types: []string{
			"bigserial", "bytea", "cidr", "inet", "json", "jsonb", "money", "serial",
			"text", "timestamptz", "tsvector", "uuid",
		},
		functions: []string{
			"array_agg", "date_trunc", "generate_series", "json_agg", "now",
			"string_agg", "to_char", "to_date",
		},
	},
	DialectMySQL: {
		keywords: []string{
			"auto_increment", "database", "describe", "duplicate", "engine", "explain",
			"ignore", "limit", "regexp", "replace", "show", "straight_join", "use",
		},
		types: []string{
			"datetime", "enum", "longtext", "mediumint", "mediumtext", "text",
			"tinyint", "tinytext", "year",
		},
		functions: []string{
			"concat", "date_format", "group_concat", "ifnull", "last_insert_id",
			"now", "str_to_date",
		},
	},
	DialectOracle: {
		keywords: []string{
			"connect", "dual", "merge", "minus", "nocopy", "prior", "rownum",
			"sequence", "start", "synonym",
		},
		types: []string{
			"long", "number", "nvarchar2", "raw", "rowid", "varchar2",
		},
		functions: []string{
			"add_months", "decode", "nvl", "nvl2", "sysdate", "to_char", "to_date",
			"to_number", "trunc",
		},
	},
}

// words builds the lookup table for a dialect. Entries are stored under
// fold(word) so lookups must use the same fold.
// Keywords win over types, which win over functions.
func words(dialect Dialect, extra wordSet, fold func(string) string) map[string]token.Kind {
	table := make(map[string]token.Kind)
	sets := []wordSet{ansiWords, dialectWords[dialect], extra}

	for _, set := range sets {
		for _, w := range set.functions {
			table[fold(w)] = token.KindFunction
		}
	}
	for _, set := range sets {
		for _, w := range set.types {
			table[fold(w)] = token.KindType
		}
	}
	for _, set := range sets {
		for _, w := range set.keywords {
			table[fold(w)] = token.KindKeyword
		}
	}
	return table
}
