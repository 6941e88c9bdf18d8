package config

import (
	"fmt"
	"strings"
)

// templateEntry is one commented setting in a generated template.
type templateEntry struct {
	section string
	comment string
	yaml    string
	toml    string
}

//nolint:gochecknoglobals // Read-only template table.
var templateEntries = []templateEntry{
	{comment: "SQL dialect for keyword tables: ansi, postgres, mysql, oracle.\nLeave unset to detect per file.",
		yaml: `dialect: ansi`, toml: `dialect = "ansi"`},
	{comment: "Extra words highlighted as keywords, types and functions.",
		yaml: "keywords: [qualify]\ntypes: [geometry]\nfunctions: [st_area]",
		toml: "keywords = [\"qualify\"]\ntypes = [\"geometry\"]\nfunctions = [\"st_area\"]"},
	{comment: "Display width of a tab when reporting columns.",
		yaml: fmt.Sprintf("tab_size: %d", DefaultTabSize), toml: fmt.Sprintf("tab_size = %d", DefaultTabSize)},
	{comment: "File extensions scanned when a directory is given.",
		yaml: "extensions: [.sql, .md, .markdown]", toml: `extensions = [".sql", ".md", ".markdown"]`},
	{comment: "Glob patterns for files to skip.",
		yaml: "ignore:\n  - \"vendor/**\"", toml: `ignore = ["vendor/**"]`},
	{section: "undo", comment: "Undo steps kept per document. 0 keeps everything.",
		yaml: fmt.Sprintf("limit: %d", DefaultUndoLimit), toml: fmt.Sprintf("limit = %d", DefaultUndoLimit)},
	{section: "undo", comment: "Merge runs of typed characters into one undo step.",
		yaml: "coalesce_typing: true", toml: "coalesce_typing = true"},
	{section: "backups", comment: "Write a .syntaxdoc.bak file before `replay --write` changes a file.",
		yaml: "enabled: true", toml: "enabled = true"},
}

// GenerateTemplate returns a commented configuration file in which every
// setting is present but commented out, so the file loads as defaults.
func GenerateTemplate(format FileFormat) []byte {
	var b strings.Builder
	b.WriteString("# syntaxdoc configuration\n")
	b.WriteString("# Uncomment a setting to change it from its default.\n")

	section := ""
	for _, e := range templateEntries {
		if e.section != section {
			section = e.section
			b.WriteString("\n")
			if format == FileTOML {
				fmt.Fprintf(&b, "# [%s]\n", section)
			} else {
				fmt.Fprintf(&b, "# %s:\n", section)
			}
		}

		indent := ""
		if section != "" && format != FileTOML {
			indent = "  "
		}

		b.WriteString("\n")
		for _, line := range strings.Split(e.comment, "\n") {
			fmt.Fprintf(&b, "%s# %s\n", indent, line)
		}
		value := e.yaml
		if format == FileTOML {
			value = e.toml
		}
		for _, line := range strings.Split(value, "\n") {
			fmt.Fprintf(&b, "%s# %s\n", indent, line)
		}
	}
	return []byte(b.String())
}
