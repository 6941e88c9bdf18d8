package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // OFFSET, LEN, KIND, TEXT
	minOffsetWidth   = 6
	minLengthWidth   = 3
	minKindWidth     = 10
	minTextWidth     = 20
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
	ellipsis         = "..."
)

// TableRow is one token in the table.
type TableRow struct {
	Offset int
	Length int
	Kind   token.Kind
	Text   string
}

// TableFormatter formats tokens as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
	tabSize   int
}

// NewTableFormatter creates a new table formatter. Tabs in token text are
// expanded to tabSize spaces.
func NewTableFormatter(styles *Styles, termWidth, tabSize int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	if tabSize <= 0 {
		tabSize = 4
	}
	return &TableFormatter{styles: styles, termWidth: termWidth, tabSize: tabSize}
}

// Rows converts tokens into table rows using content for their text.
func Rows(tokens []token.Token, content []byte) []TableRow {
	rows := make([]TableRow, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, TableRow{
			Offset: tok.Start,
			Length: tok.Length,
			Kind:   tok.Kind,
			Text:   string(tok.Text(content)),
		})
	}
	return rows
}

type columnWidths struct {
	offset int
	length int
	kind   int
	text   int
}

// FormatTable formats rows as a table with header and separators.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}
	builder.WriteString(t.formatSeparator(widths, lightSeparator))
	builder.WriteString("\n")
	return builder.String()
}

func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		offset: minOffsetWidth,
		length: minLengthWidth,
		kind:   minKindWidth,
		text:   minTextWidth,
	}

	for _, row := range rows {
		widths.offset = max(widths.offset, len(strconv.Itoa(row.Offset)))
		widths.length = max(widths.length, len(strconv.Itoa(row.Length)))
		widths.kind = max(widths.kind, len(row.Kind.String()))
		widths.text = max(widths.text, runewidth.StringWidth(t.displayText(row.Text)))
	}

	total := t.totalWidth(widths)
	if total > t.termWidth {
		widths.text = max(minTextWidth, widths.text-(total-t.termWidth))
	}
	return widths
}

func (t *TableFormatter) totalWidth(widths columnWidths) int {
	return widths.offset + widths.length + widths.kind + widths.text + tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %*s  %*s  %-*s  %-*s",
		widths.offset, "OFFSET",
		widths.length, "LEN",
		widths.kind, "KIND",
		widths.text, "TEXT",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.totalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	text := truncate(t.displayText(row.Text), widths.text)
	kind := fmt.Sprintf("%-*s", widths.kind, row.Kind)

	return fmt.Sprintf(" %*d  %*d  %s  %s",
		widths.offset, row.Offset,
		widths.length, row.Length,
		t.styles.Kind(row.Kind).Render(kind),
		text,
	)
}

// displayText makes control characters visible and expands tabs so the
// text fits on one table line.
func (t *TableFormatter) displayText(text string) string {
	replacer := strings.NewReplacer(
		"\t", strings.Repeat(" ", t.tabSize),
		"\r\n", `\n`,
		"\n", `\n`,
		"\r", `\r`,
	)
	return replacer.Replace(text)
}

// truncate shortens str to at most width terminal cells, ending in "...".
func truncate(str string, width int) string {
	if runewidth.StringWidth(str) <= width {
		return str
	}
	if width <= len(ellipsis) {
		return runewidth.Truncate(str, width, "")
	}
	return runewidth.Truncate(str, width, ellipsis)
}

// FormatKindCounts formats per-kind counts as "keyword 3 | identifier 2".
// Kinds with no tokens are omitted.
func (t *TableFormatter) FormatKindCounts(counts map[token.Kind]int) string {
	var parts []string
	for _, kind := range token.Kinds() {
		if n := counts[kind]; n > 0 {
			parts = append(parts, t.styles.Kind(kind).Render(kind.String())+" "+strconv.Itoa(n))
		}
	}
	return " " + strings.Join(parts, " | ")
}
