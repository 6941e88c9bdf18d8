package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/syntaxdoc/internal/ui/pretty"
	"github.com/yaklabco/syntaxdoc/pkg/runner"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:  3,
		FilesPartial:    1,
		TokensTotal:     15,
		Bytes:           120,
		TokensByKind:    map[token.Kind]int{token.KindKeyword: 5, token.KindIdentifier: 10},
		FilesByLanguage: map[string]int{"sql": 2, "markdown": 1},
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files tokenized:   3")
	assert.Contains(t, result, "Partial parses:    1")
	assert.Contains(t, result, "Total tokens:      15")
	assert.Contains(t, result, "keyword:")
	assert.Contains(t, result, "markdown:")
	assert.NotContains(t, result, "string:")
	assert.Contains(t, result, "Tokenized with lexer failures")
}

func TestFormatSummary_Clean(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesProcessed: 1, TokensTotal: 4})

	assert.Contains(t, result, "Tokenized cleanly")
	assert.NotContains(t, result, "Unreadable files:")
}

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "nothing",
			stats: runner.Stats{},
			want:  "No files tokenized\n",
		},
		{
			name:  "single file",
			stats: runner.Stats{FilesProcessed: 1, TokensTotal: 1},
			want:  "1 token in 1 file\n",
		},
		{
			name:  "with problems",
			stats: runner.Stats{FilesProcessed: 2, FilesPartial: 1, FilesErrored: 1, TokensTotal: 9},
			want:  "9 tokens in 2 files, 1 partial, 1 unreadable\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, styles.FormatSummaryOneLine(tc.stats))
		})
	}
}
