package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/syntaxdoc/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"empty", "", langdetect.LangText},
		{"whitespace only", "  \n\t", langdetect.LangText},
		{"select", "SELECT * FROM t", langdetect.LangSQL},
		{"lowercase insert", "insert into t values (1)", langdetect.LangSQL},
		{"leading comment", "-- report query\nSELECT 1", langdetect.LangSQL},
		{"postgres cast", "SELECT id::text FROM t", langdetect.LangPLpgSQL},
		{"postgres function", "CREATE FUNCTION f() RETURNS int AS $$ BEGIN RETURN 1; END $$ LANGUAGE plpgsql;", langdetect.LangPLpgSQL},
		{"mysql engine", "CREATE TABLE t (id INT AUTO_INCREMENT) ENGINE=InnoDB", langdetect.LangMySQL},
		{"oracle dual", "SELECT SYSDATE FROM DUAL", langdetect.LangPLSQL},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, langdetect.Detect([]byte(tc.content)))
		})
	}
}

func TestDetectFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		content  string
		expected string
	}{
		{"sql extension", "query.sql", "SELECT 1", langdetect.LangSQL},
		{"sql extension with dialect hint", "schema.sql", "CREATE TABLE t (n VARCHAR2(10))", langdetect.LangPLSQL},
		{"upper-case extension", "QUERY.SQL", "select 1", langdetect.LangSQL},
		{"markdown", "README.md", "# Title\n", langdetect.LangMarkdown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, langdetect.DetectFile(tc.path, []byte(tc.content)))
		})
	}
}

func TestIsSQL(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{langdetect.LangSQL, langdetect.LangPLpgSQL, langdetect.LangPLSQL, langdetect.LangMySQL} {
		assert.True(t, langdetect.IsSQL(lang), lang)
	}
	assert.False(t, langdetect.IsSQL(langdetect.LangText))
	assert.False(t, langdetect.IsSQL(langdetect.LangMarkdown))
}
