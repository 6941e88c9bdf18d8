package lsp

import (
	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// tokenTypes is the semantic token legend. Order matters: the encoded
// stream refers to types by index.
//
//nolint:gochecknoglobals // Read-only legend.
var tokenTypes = []string{
	"keyword",
	"type",
	"function",
	"variable",
	"number",
	"string",
	"comment",
	"operator",
	"parameter",
}

// kindTypes maps token kinds to legend indices. Kinds missing here are not
// reported as semantic tokens.
//
//nolint:gochecknoglobals // Read-only lookup table.
var kindTypes = map[token.Kind]protocol.UInteger{
	token.KindKeyword:    0,
	token.KindType:       1,
	token.KindFunction:   2,
	token.KindIdentifier: 3,
	token.KindNumber:     4,
	token.KindString:     5,
	token.KindComment:    6,
	token.KindOperator:   7,
	token.KindParameter:  8,
}

func legend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes:     tokenTypes,
		TokenModifiers: []string{},
	}
}

// encodeSemanticTokens produces the relative five-integer encoding of the
// LSP semantic tokens response. Tokens spanning lines are split per line.
func encodeSemanticTokens(tokens []token.Token, lines *lineIndex) ([]protocol.UInteger, error) {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	var prevLine, prevChar protocol.UInteger

	emit := func(start, end int, typ protocol.UInteger) error {
		if end <= start {
			return nil
		}
		pos, err := lines.Position(start)
		if err != nil {
			return err
		}
		length, err := safecast.Conv[protocol.UInteger](utf16Len(lines.text[start:end]))
		if err != nil {
			return err
		}

		deltaLine := pos.Line - prevLine
		deltaChar := pos.Character
		if deltaLine == 0 {
			deltaChar -= prevChar
		}
		data = append(data, deltaLine, deltaChar, length, typ, 0)
		prevLine, prevChar = pos.Line, pos.Character
		return nil
	}

	for _, tok := range tokens {
		typ, ok := kindTypes[tok.Kind]
		if !ok {
			continue
		}
		start := tok.Start
		for start < tok.End() {
			pos, err := lines.Position(start)
			if err != nil {
				return nil, err
			}
			end := min(tok.End(), lines.lineEnd(int(pos.Line)))
			if err := emit(start, end, typ); err != nil {
				return nil, err
			}
			if int(pos.Line)+1 >= len(lines.lines) {
				break
			}
			start = lines.lines[pos.Line+1]
		}
	}
	return data, nil
}
