// Package mdsql finds SQL in Markdown fenced code blocks so the same lexer
// can tokenize queries embedded in documentation.
package mdsql

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/syntaxdoc/pkg/langdetect"
)

// Block is the body of one fenced code block holding SQL.
type Block struct {
	// Content is the block body with container prefixes (list indentation,
	// blockquote markers) removed.
	Content []byte

	// Language is a langdetect SQL identifier.
	Language string

	// Info is the raw info string after the opening fence.
	Info string

	// Line is the 1-based line of the first body line.
	Line int

	spans []span
}

// span maps a run of Content bytes back to the source.
type span struct {
	local int
	file  int
	// virtual spans are tab padding synthesized by the parser; all their
	// bytes map to the same source offset.
	virtual bool
}

// Offset returns the source offset of the first body byte.
func (b Block) Offset() int {
	if len(b.spans) == 0 {
		return 0
	}
	return b.spans[0].file
}

// FileOffset maps an offset within Content to an offset in the Markdown
// source. Offsets at or past the end map to the end of the last line.
func (b Block) FileOffset(local int) int {
	if len(b.spans) == 0 {
		return local
	}
	i := sort.Search(len(b.spans), func(i int) bool { return b.spans[i].local > local }) - 1
	i = max(i, 0)
	s := b.spans[i]
	if s.virtual {
		return s.file
	}
	return s.file + local - s.local
}

//nolint:gochecknoglobals // Parser is stateless and safe for reuse.
var md = goldmark.New()

// Extract returns the SQL blocks in a Markdown document, in source order.
// A block qualifies when its info string names an SQL language, or when it
// has no info string and its body is detected as SQL.
func Extract(source []byte) []Block {
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	var blocks []Block
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if block, ok := newBlock(fenced, source); ok {
			blocks = append(blocks, block)
		}
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

func newBlock(fenced *ast.FencedCodeBlock, source []byte) (Block, bool) {
	lines := fenced.Lines()
	if lines.Len() == 0 {
		return Block{}, false
	}

	var content bytes.Buffer
	var spans []span
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Padding > 0 {
			spans = append(spans, span{local: content.Len(), file: seg.Start, virtual: true})
			content.Write(bytes.Repeat([]byte{' '}, seg.Padding))
		}
		spans = append(spans, span{local: content.Len(), file: seg.Start})
		content.Write(source[seg.Start:seg.Stop])
	}

	info := ""
	if fenced.Info != nil {
		info = strings.TrimSpace(string(fenced.Info.Value(source)))
	}

	lang := languageFor(info, content.Bytes())
	if lang == "" {
		return Block{}, false
	}

	first := lines.At(0).Start
	return Block{
		Content:  content.Bytes(),
		Language: lang,
		Info:     info,
		Line:     bytes.Count(source[:first], []byte("\n")) + 1,
		spans:    spans,
	}, true
}

// languageFor maps an info string to an SQL language, detecting untagged
// blocks from their content. Returns "" for anything else.
func languageFor(info string, body []byte) string {
	if info == "" {
		if lang := langdetect.Detect(body); langdetect.IsSQL(lang) {
			return lang
		}
		return ""
	}

	word := strings.ToLower(strings.Fields(info)[0])
	word = strings.Trim(word, "{}.")
	switch word {
	case "sql", "ansi", "sqlite", "tsql", "t-sql":
		return langdetect.LangSQL
	case "postgres", "postgresql", "pgsql", "plpgsql", "psql":
		return langdetect.LangPLpgSQL
	case "mysql", "mariadb":
		return langdetect.LangMySQL
	case "oracle", "plsql", "pl/sql":
		return langdetect.LangPLSQL
	}
	return ""
}
