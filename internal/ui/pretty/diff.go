package pretty

import (
	"strings"

	"github.com/yaklabco/syntaxdoc/pkg/edit"
)

// FormatDiff renders a unified diff with added lines in the success color
// and removed lines in the failure color.
func (s *Styles) FormatDiff(d *edit.LineDiff) string {
	if d == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.Bold.Render("--- a/"+d.Path) + "\n")
	b.WriteString(s.Bold.Render("+++ b/"+d.Path) + "\n")
	for _, h := range d.Hunks {
		b.WriteString(s.Info.Render(h.Header()) + "\n")
		for _, line := range h.Lines {
			text := string(line.Op) + line.Text
			switch line.Op {
			case '+':
				text = s.Success.Render(text)
			case '-':
				text = s.Failure.Render(text)
			}
			b.WriteString(text + "\n")
		}
	}
	return b.String()
}
