// Package langdetect decides which lexer applies to a file or code block.
// It uses go-enry for extension, shebang and classifier based detection and
// adds SQL dialect heuristics on top.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language identifiers returned by the detector.
const (
	LangSQL      = "sql"
	LangPLpgSQL  = "plpgsql"
	LangPLSQL    = "plsql"
	LangMySQL    = "mysql"
	LangMarkdown = "markdown"
	LangText     = "text"
)

// sqlCandidates are the go-enry language names treated as SQL.
//
//nolint:gochecknoglobals // Read-only lookup table.
var sqlCandidates = []string{"SQL", "PLpgSQL", "PLSQL", "TSQL", "SQLPL"}

// DetectFile returns the language for a file, using its name first and its
// content when the name is ambiguous. Returns "text" when nothing matches.
func DetectFile(path string, content []byte) string {
	if lang, safe := enry.GetLanguageByExtension(path); safe {
		lang = normalize(lang)
		if lang == LangSQL {
			// Extension alone cannot tell dialects apart.
			if hint := detectDialect(string(content)); hint != "" {
				return hint
			}
		}
		return lang
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		// ".md" is shared with GCC machine descriptions in enry's tables.
		return LangMarkdown
	case ".sql":
		return sqlDialect(content)
	}

	if containsSQL(enry.GetLanguagesByExtension(path, content, nil)) {
		return sqlDialect(content)
	}

	return Detect(content)
}

// Detect returns the detected language for a snippet with no file name, such
// as an untagged code fence. Returns "text" if detection fails or confidence
// is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	// Shebangs are the most reliable signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	contentStr := string(content)
	if looksLikeSQL(contentStr) {
		if hint := detectDialect(contentStr); hint != "" {
			return hint
		}
		return LangSQL
	}

	candidates := append([]string{"Markdown", "Text"}, sqlCandidates...)
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

// sqlDialect returns the dialect hinted at by content, or plain SQL.
func sqlDialect(content []byte) string {
	if hint := detectDialect(string(content)); hint != "" {
		return hint
	}
	return LangSQL
}

// IsSQL reports whether lang is one of the SQL family identifiers.
func IsSQL(lang string) bool {
	switch lang {
	case LangSQL, LangPLpgSQL, LangPLSQL, LangMySQL:
		return true
	default:
		return false
	}
}

// looksLikeSQL checks whether a snippet starts with a common statement.
func looksLikeSQL(contentStr string) bool {
	trimmedUpper := strings.ToUpper(strings.TrimSpace(contentStr))
	for _, prefix := range []string{
		"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE ", "ALTER ",
		"DROP ", "WITH ", "MERGE ", "GRANT ", "BEGIN", "--", "/*",
	} {
		if strings.HasPrefix(trimmedUpper, prefix) {
			return true
		}
	}
	return false
}

// detectDialect looks for vendor-specific syntax.
func detectDialect(contentStr string) string {
	upper := strings.ToUpper(contentStr)
	switch {
	case strings.Contains(upper, "LANGUAGE PLPGSQL"),
		strings.Contains(upper, "::"),
		strings.Contains(upper, " ILIKE "),
		strings.Contains(upper, "RETURNING "):
		return LangPLpgSQL
	case strings.Contains(upper, "AUTO_INCREMENT"),
		strings.Contains(upper, "ENGINE="),
		strings.Contains(contentStr, "`"):
		return LangMySQL
	case strings.Contains(upper, "VARCHAR2"),
		strings.Contains(upper, "NVL("),
		strings.Contains(upper, " FROM DUAL"),
		strings.Contains(upper, "ROWNUM"):
		return LangPLSQL
	}
	return ""
}

func containsSQL(candidates []string) bool {
	for _, c := range candidates {
		for _, s := range sqlCandidates {
			if c == s {
				return true
			}
		}
	}
	return false
}

// normalize converts go-enry language names to identifiers used here.
func normalize(lang string) string {
	switch lang {
	case "SQL", "TSQL", "SQLPL":
		return LangSQL
	case "PLpgSQL":
		return LangPLpgSQL
	case "PLSQL":
		return LangPLSQL
	default:
		return strings.ToLower(lang)
	}
}
