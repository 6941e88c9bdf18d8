package pretty

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/syntaxdoc/pkg/runner"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "120 tokens in 3 files, 1 partial, 2 unreadable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesProcessed == 0 && stats.FilesErrored == 0 {
		return s.Dim.Render("No files tokenized") + "\n"
	}

	parts := []string{fmt.Sprintf("%d %s in %d %s",
		stats.TokensTotal, plural(stats.TokensTotal, "token", "tokens"),
		stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))}

	if stats.FilesPartial > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d partial", stats.FilesPartial)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}
	if stats.FilesPartial == 0 && stats.FilesErrored == 0 {
		parts[0] = s.Success.Render(parts[0])
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block with counts by
// language and by token kind.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files tokenized:   " + s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	if stats.FilesPartial > 0 {
		builder.WriteString("  Partial parses:    " + s.Warning.Render(strconv.Itoa(stats.FilesPartial)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Unreadable files:  " + s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	builder.WriteString("  Bytes:             " + s.SummaryValue.Render(strconv.Itoa(stats.Bytes)) + "\n")

	if len(stats.FilesByLanguage) > 0 {
		builder.WriteString("\n")
		langs := make([]string, 0, len(stats.FilesByLanguage))
		for lang := range stats.FilesByLanguage {
			langs = append(langs, lang)
		}
		slices.Sort(langs)
		for _, lang := range langs {
			builder.WriteString(fmt.Sprintf("    %-16s %s\n", lang+":", s.SummaryValue.Render(strconv.Itoa(stats.FilesByLanguage[lang]))))
		}
	}

	builder.WriteString("\n")
	builder.WriteString("  Total tokens:      " + s.SummaryValue.Render(strconv.Itoa(stats.TokensTotal)) + "\n")
	for _, kind := range token.Kinds() {
		if n := stats.TokensByKind[kind]; n > 0 {
			builder.WriteString(fmt.Sprintf("    %-16s %s\n", kind.String()+":", s.Kind(kind).Render(strconv.Itoa(n))))
		}
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Some files could not be read"))
	case stats.FilesPartial > 0:
		builder.WriteString(s.Warning.Render("Tokenized with lexer failures"))
	default:
		builder.WriteString(s.Success.Render("Tokenized cleanly"))
	}
	builder.WriteString("\n")

	return builder.String()
}
