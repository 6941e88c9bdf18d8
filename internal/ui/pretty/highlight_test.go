package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/syntaxdoc/internal/ui/pretty"
	"github.com/yaklabco/syntaxdoc/pkg/edit"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

func TestHighlight_NoColorRoundTrips(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	content := []byte("SELECT *\n/* a\nb */ FROM t")
	tokens := []token.Token{
		token.New(token.KindKeyword, 0, 6),
		token.New(token.KindOperator, 7, 1),
		token.New(token.KindComment, 9, 9),
		token.New(token.KindKeyword, 19, 4),
		token.New(token.KindIdentifier, 24, 1),
	}

	assert.Equal(t, string(content), styles.Highlight(content, tokens))
}

func TestHighlight_SkipsInvalidTokens(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	content := []byte("abc")
	tokens := []token.Token{
		token.New(token.KindIdentifier, 1, 10),
	}

	assert.Equal(t, "abc", styles.Highlight(content, tokens))
}

func TestFormatToken(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	got := styles.FormatToken(token.New(token.KindString, 2, 4), []byte("a 'b\n' c"))

	assert.Equal(t, `string     [2:6] "'b\n'"`, got)
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "q.sql (sql, 4 tokens)", styles.FormatFileHeader("q.sql", "sql", 4))
	assert.Equal(t, "q.txt", styles.FormatFileHeader("q.txt", "", 0))
}

func TestFormatCaret(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "  ^", styles.FormatCaret(3))
	assert.Empty(t, styles.FormatCaret(0))
}

func TestFormatDiffPlain(t *testing.T) {
	t.Parallel()

	s := pretty.NewStyles(false)
	d := edit.DiffLines("q.sql", "SELECT a\n", "SELECT b\n")

	assert.Equal(t, d.String(), s.FormatDiff(d))
	assert.Empty(t, s.FormatDiff(nil))
}
