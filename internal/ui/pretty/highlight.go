package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// Highlight renders content with every token painted in its kind's style.
// Gaps between tokens are copied unchanged. Tokens must be sorted and
// non-overlapping, as an index guarantees.
func (s *Styles) Highlight(content []byte, tokens []token.Token) string {
	var builder strings.Builder
	builder.Grow(len(content))

	pos := 0
	for _, tok := range tokens {
		if tok.Start < pos || tok.End() > len(content) {
			continue
		}
		builder.Write(content[pos:tok.Start])
		builder.WriteString(s.renderToken(tok.Kind, string(tok.Text(content))))
		pos = tok.End()
	}
	builder.Write(content[pos:])
	return builder.String()
}

// renderToken styles a token line by line so multi-line comments keep
// their escape sequences from bleeding across newlines.
func (s *Styles) renderToken(kind token.Kind, text string) string {
	style := s.Kind(kind)
	if !strings.Contains(text, "\n") {
		return style.Render(text)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// FormatToken formats a single token as "kind [start:end] text".
func (s *Styles) FormatToken(tok token.Token, content []byte) string {
	return fmt.Sprintf("%s %s %s",
		s.Kind(tok.Kind).Render(fmt.Sprintf("%-10s", tok.Kind)),
		s.Location.Render(fmt.Sprintf("[%d:%d]", tok.Start, tok.End())),
		quote(tok.Text(content)),
	)
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path, language string, tokens int) string {
	header := s.FilePath.Render(path)
	if language != "" {
		header += s.Dim.Render(fmt.Sprintf(" (%s, %d tokens)", language, tokens))
	}
	return header
}

// FormatCaret returns a marker line pointing at column (1-based).
func (s *Styles) FormatCaret(column int) string {
	if column < 1 {
		return ""
	}
	return strings.Repeat(" ", column-1) + s.Caret.Render("^")
}

func quote(text []byte) string {
	return fmt.Sprintf("%q", text)
}
